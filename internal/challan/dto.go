package challan

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Number accepts a JSON number, a numeric string, or null.
type Number struct {
	Value float64
	Set   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = Number{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = Number{}
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*n = Number{Value: v, Set: true}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Number{Value: v, Set: true}
	return nil
}

// Text accepts a JSON string or number and keeps its textual form.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	*t = Text(data)
	return nil
}

// BoxRef is the client's nested box selection; only its title is used.
type BoxRef struct {
	Title Text `json:"title"`
}

// RawItem is an item as sent by clients, with the alternate key names they use.
type RawItem struct {
	Description Text    `json:"description"`
	Item        Text    `json:"item"`
	Box         *BoxRef `json:"box"`
	SizeHeight  Text    `json:"sizeHeight"`
	Height      Text    `json:"height"`
	SizeWidth   Text    `json:"sizeWidth"`
	Width       Text    `json:"width"`
	Nos         Text    `json:"nos"`
	Quantity    Number  `json:"quantity"`
	Qty         Number  `json:"qty"`
	Rate        Number  `json:"rate"`
	Per         Text    `json:"per"`
}

// ChallanRequest is the body of create, save-draft and save-and-download.
type ChallanRequest struct {
	ID         string    `json:"_id"`
	Date       string    `json:"date"`
	Buyer      string    `json:"buyer"`
	BuyerGSTIN string    `json:"buyerGstin"`
	Note1      string    `json:"note1"`
	Note2      string    `json:"note2"`
	Note3      string    `json:"note3"`
	Note4      string    `json:"note4"`
	Items      []RawItem `json:"items"`
	Status     Status    `json:"status"`
}

// UpdateRequest is a partial update; nil fields are left untouched.
type UpdateRequest struct {
	Date       *string    `json:"date"`
	Buyer      *string    `json:"buyer"`
	BuyerGSTIN *string    `json:"buyerGstin"`
	Note1      *string    `json:"note1"`
	Note2      *string    `json:"note2"`
	Note3      *string    `json:"note3"`
	Note4      *string    `json:"note4"`
	Items      *[]RawItem `json:"items"`
	Status     *Status    `json:"status"`
}

// ListRequest filters and paginates the challan list.
type ListRequest struct {
	Status Status
	Limit  int
	Offset int
}
