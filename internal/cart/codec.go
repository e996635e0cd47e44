package cart

import (
	"encoding/json"
	"slices"
)

func encodeLines(lines []LineItem) ([]byte, error) {
	if lines == nil {
		lines = []LineItem{}
	}
	return json.Marshal(lines)
}

func encodeWishlist(ids []string) ([]byte, error) {
	if ids == nil {
		ids = []string{}
	}
	return json.Marshal(ids)
}

// decodeLines rebuilds a line list from persisted bytes, restoring the
// one-line-per-key and quantity >= 1 invariants on whatever it finds.
func decodeLines(raw []byte) ([]LineItem, error) {
	var in []LineItem
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, err
	}

	out := make([]LineItem, 0, len(in))
	index := make(map[Key]int, len(in))
	for _, l := range in {
		if l.LineID == "" || l.Product.ID == "" {
			continue
		}
		l.Quantity = clampQuantity(l.Quantity)
		if i, ok := index[l.Key()]; ok {
			out[i].Quantity = clampQuantity(out[i].Quantity + l.Quantity)
			continue
		}
		index[l.Key()] = len(out)
		out = append(out, l)
	}
	return out, nil
}

func decodeWishlist(raw []byte) ([]string, error) {
	var in []string
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(in))
	for _, id := range in {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out, nil
}
