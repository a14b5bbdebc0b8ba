package lexicon

import "github.com/nzebi/dico/pkg/word"

// Page is a window over a word list.
type Page struct {
	Words   []*word.Word `json:"words"`
	HasMore bool         `json:"has_more"`
	Total   int          `json:"total"`
	Offset  int          `json:"offset"`
	Limit   int          `json:"limit"`
}

// Paginate slices words[offset:offset+limit]. A negative offset counts as 0
// and a non-positive limit returns everything from offset.
func Paginate(words []*word.Word, offset, limit int) Page {
	total := len(words)
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	page := make([]*word.Word, end-offset)
	copy(page, words[offset:end])
	return Page{
		Words:   page,
		HasMore: end < total,
		Total:   total,
		Offset:  offset,
		Limit:   limit,
	}
}
