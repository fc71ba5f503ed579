package elmodel

import (
	"net/url"
	"strconv"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// SortOrder is the direction of a paginated listing.
type SortOrder string

// Allowable values of SortOrder.
const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// Cursor marks a position in a list of paginated resources. List operations take a cursor to
// fetch a specific page, and every page carries the cursors of its neighbors.
type Cursor struct {
	// Before requests the elements preceding the resource with this identifier.
	Before string

	// After requests the elements following the resource with this identifier.
	After string

	// Size is the maximum number of elements per page, or zero for the server default.
	Size int

	// Sort is the field used to order elements, or empty for the server default.
	Sort string

	// Order is the sort direction; the server defaults to OrderAsc when it is empty.
	Order SortOrder
}

// Page is one page of results from a list operation.
type Page[T any] struct {
	Elements []T

	// Previous is the cursor of the preceding page, if there is one.
	Previous *Cursor

	// Next is the cursor of the following page, if there is one.
	Next *Cursor
}

// HasPrevious returns true if a preceding page exists.
func (p Page[T]) HasPrevious() bool {
	return p.Previous != nil
}

// HasNext returns true if a following page exists.
func (p Page[T]) HasNext() bool {
	return p.Next != nil
}

// URLQuery returns the cursor as URL query parameters, the form list endpoints expect.
func (c Cursor) URLQuery() url.Values {
	values := url.Values{}
	if c.Before != "" {
		values.Set("before", c.Before)
	}
	if c.After != "" {
		values.Set("after", c.After)
	}
	if c.Size > 0 {
		values.Set("size", strconv.Itoa(c.Size))
	}
	if c.Sort != "" {
		values.Set("sort", c.Sort)
	}
	if c.Order != "" {
		values.Set("order", string(c.Order))
	}
	return values
}

// ReadFromJSONReader reads the cursor from a JSON object, validating the sort order.
func (c *Cursor) ReadFromJSONReader(r *jreader.Reader) {
	obj := r.Object()
	c.readFromObject(r, &obj)
}

func (c *Cursor) readFromObject(r *jreader.Reader, obj *jreader.ObjectState) {
	for obj.Next() {
		switch string(obj.Name()) {
		case "before":
			c.Before = r.String()
		case "after":
			c.After = r.String()
		case "size":
			c.Size = r.Int()
		case "sort":
			c.Sort = r.String()
		case "order":
			c.Order = SortOrder(r.String())
		}
	}
	if r.Error() == nil && c.Order != "" && c.Order != OrderAsc && c.Order != OrderDesc {
		r.AddError(badFieldError("cursor", "order", "is not a valid sort order"))
	}
}

// WriteToJSONWriter writes the cursor in its standard JSON representation.
func (c Cursor) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	obj.Maybe("before", c.Before != "").String(c.Before)
	obj.Maybe("after", c.After != "").String(c.After)
	obj.Maybe("size", c.Size > 0).Int(c.Size)
	obj.Maybe("sort", c.Sort != "").String(c.Sort)
	obj.Maybe("order", c.Order != "").String(string(c.Order))
	obj.End()
}

// UnmarshalJSON parses a cursor, returning an InvalidObjectError for schema violations.
func (c *Cursor) UnmarshalJSON(data []byte) error {
	return unmarshalObject("cursor", data, c)
}

// MarshalJSON produces the standard JSON representation of the cursor.
func (c Cursor) MarshalJSON() ([]byte, error) {
	return jwriter.MarshalJSONWithWriter(c)
}

// ReadPageFromJSONReader reads a page of resources from a JSON object. Elements are read with
// the element type's own reader, so per-element validation applies.
func ReadPageFromJSONReader[T any, PT interface {
	*T
	jreader.Readable
}](r *jreader.Reader) Page[T] {
	var page Page[T]
	var hasElements bool
	for obj := r.Object(); obj.Next(); {
		switch string(obj.Name()) {
		case "elements":
			hasElements = true
			for arr := r.Array(); arr.Next(); {
				var element T
				PT(&element).ReadFromJSONReader(r)
				page.Elements = append(page.Elements, element)
			}
		case "previous":
			if cursorObj := r.ObjectOrNull(); cursorObj.IsDefined() {
				var c Cursor
				c.readFromObject(r, &cursorObj)
				page.Previous = &c
			}
		case "next":
			if cursorObj := r.ObjectOrNull(); cursorObj.IsDefined() {
				var c Cursor
				c.readFromObject(r, &cursorObj)
				page.Next = &c
			}
		}
	}
	checkRequiredFields(r, "page", fieldSeen{"elements", hasElements})
	return page
}

// UnmarshalPage parses one page of resources, for instance UnmarshalPage[Project](data).
func UnmarshalPage[T any, PT interface {
	*T
	jreader.Readable
}](data []byte) (Page[T], error) {
	r := jreader.NewReader(data)
	page := ReadPageFromJSONReader[T, PT](&r)
	if err := r.Error(); err != nil {
		return Page[T]{}, translateReadError("page", err)
	}
	return page, nil
}

// WritePageToJSONWriter writes a page of resources in its standard JSON representation.
func WritePageToJSONWriter[T jwriter.Writable](page Page[T], w *jwriter.Writer) {
	obj := w.Object()
	elementsWriter := obj.Name("elements")
	arr := elementsWriter.Array()
	for _, element := range page.Elements {
		element.WriteToJSONWriter(elementsWriter)
	}
	arr.End()
	if page.Previous != nil {
		page.Previous.WriteToJSONWriter(obj.Name("previous"))
	}
	if page.Next != nil {
		page.Next.WriteToJSONWriter(obj.Name("next"))
	}
	obj.End()
}

// MarshalPage produces the standard JSON representation of a page of resources.
func MarshalPage[T jwriter.Writable](page Page[T]) ([]byte, error) {
	w := jwriter.NewWriter()
	WritePageToJSONWriter(page, &w)
	return w.Bytes(), w.Error()
}
