package content

import (
	"fmt"
	"strings"
)

// Query describes a read against the content store. It renders to GROQ.
type Query struct {
	// Type is the document _type to fetch.
	Type string
	// Where holds extra predicates joined with &&.
	Where []string
	// MatchField, when set, is matched case-insensitively against the
	// MatchParam parameter wrapped in wildcards.
	MatchField string
	MatchParam string
	// OrderBy and Desc control the order() pipe.
	OrderBy string
	Desc    bool
	// Slice bounds. Single selects [Start] and yields one document or null.
	Start  int
	End    int
	Single bool
	// Projection is the body of the {...} block, without braces.
	Projection string
}

// String renders the query as GROQ.
func (q Query) String() string {
	var b strings.Builder

	preds := make([]string, 0, len(q.Where)+2)
	preds = append(preds, fmt.Sprintf("_type == %q", q.Type))
	preds = append(preds, q.Where...)
	if q.MatchField != "" {
		preds = append(preds, fmt.Sprintf(`lower(%s) match ("*" + lower($%s) + "*")`, q.MatchField, q.MatchParam))
	}
	b.WriteString("*[")
	b.WriteString(strings.Join(preds, " && "))
	b.WriteString("]")

	if q.OrderBy != "" {
		dir := "asc"
		if q.Desc {
			dir = "desc"
		}
		fmt.Fprintf(&b, " | order(%s %s)", q.OrderBy, dir)
	}

	switch {
	case q.Single:
		fmt.Fprintf(&b, "[%d]", q.Start)
	case q.End > q.Start:
		fmt.Fprintf(&b, "[%d...%d]", q.Start, q.End)
	}

	if p := strings.TrimSpace(q.Projection); p != "" {
		b.WriteString(" {")
		b.WriteString(p)
		b.WriteString("}")
	}
	return b.String()
}

// Params are the $-prefixed query parameters. Values are JSON encoded on the wire.
type Params map[string]interface{}
