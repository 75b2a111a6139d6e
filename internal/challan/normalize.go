package challan

import "strings"

// NormalizeItems maps client items onto Item, resolving the alternate key names.
// A missing quantity or rate is reported as a validation error.
func NormalizeItems(raw []RawItem) ([]Item, error) {
	items := make([]Item, 0, len(raw))
	for i, r := range raw {
		item, err := normalizeItem(i, r)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func normalizeItem(index int, r RawItem) (Item, error) {
	description := firstNonEmpty(string(r.Description), string(r.Item))
	if description == "" && r.Box != nil {
		description = string(r.Box.Title)
	}

	quantity := r.Quantity
	if !quantity.Set {
		quantity = r.Qty
	}
	if !quantity.Set {
		return Item{}, errMissingItemField(index, "quantity")
	}
	if !r.Rate.Set {
		return Item{}, errMissingItemField(index, "rate")
	}

	per := strings.TrimSpace(string(r.Per))
	if per == "" {
		per = DefaultUnit
	}

	return Item{
		Description: strings.TrimSpace(description),
		SizeHeight:  firstNonEmpty(string(r.SizeHeight), string(r.Height)),
		SizeWidth:   firstNonEmpty(string(r.SizeWidth), string(r.Width)),
		Nos:         string(r.Nos),
		Quantity:    quantity.Value,
		Rate:        r.Rate.Value,
		Per:         per,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
