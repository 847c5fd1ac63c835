package reddit

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// CommentRecord is one comment body found in the thread payload, together
// with the traversal path (keys and stringified indices joined with "/")
// identifying where it came from.
type CommentRecord struct {
	Path string
	Body string
}

// Flatten walks the thread payload depth-first and returns one record per
// node that carries a "body" field, in document order. A node with a body
// emits its record before its children are visited; object keys are visited
// in encounter order, array elements by index. Nodes without a body are
// skipped silently, never an error.
//
// The walk is performed on a gjson document rather than decoded maps so that
// object key order survives; chunking relies on this order to keep comment
// chronology.
func Flatten(doc gjson.Result) []CommentRecord {
	var records []CommentRecord
	walk(doc, nil, &records)
	return records
}

func walk(node gjson.Result, path []string, records *[]CommentRecord) {
	switch {
	case node.IsObject():
		if body := node.Get("body"); body.Exists() {
			*records = append(*records, CommentRecord{
				Path: strings.Join(path, "/"),
				Body: body.String(),
			})
		}
		node.ForEach(func(key, value gjson.Result) bool {
			walk(value, append(path, key.String()), records)
			return true
		})
	case node.IsArray():
		i := 0
		node.ForEach(func(_, value gjson.Result) bool {
			walk(value, append(path, strconv.Itoa(i)), records)
			i++
			return true
		})
	}
}
