package reddit

import "github.com/tidwall/gjson"

// ExtractMetadata reads the thread title and selftext from the listing root.
// Unlike Flatten it assumes the exact reddit thread-root shape
// ([0].data.children[0].data) and fails with a *MissingFieldError when any
// expected level or field is absent.
func ExtractMetadata(doc gjson.Result) (title, selftext string, err error) {
	child := doc.Get("0.data.children.0.data")
	if !child.Exists() {
		return "", "", &MissingFieldError{Field: "data.children.0.data"}
	}

	t := child.Get("title")
	if !t.Exists() {
		return "", "", &MissingFieldError{Field: "title"}
	}
	s := child.Get("selftext")
	if !s.Exists() {
		return "", "", &MissingFieldError{Field: "selftext"}
	}
	return t.String(), s.String(), nil
}
