package engine

import (
	"github.com/draftbill/draftbill/internal/catalog"
	"github.com/draftbill/draftbill/internal/schema"
)

// FieldSpec describes one required field of a kind for the conversational
// layer: its schema name, description, clarifying question, and allowed
// options where the value set is closed.
type FieldSpec struct {
	Name        string
	Description string
	Question    schema.Question
	Options     []string
}

// DescribeSchema returns the unconditionally required fields of a kind, in
// schema order, dressed with human labels and clarifying questions.
func (e *Engine) DescribeSchema(kind catalog.EntityKind) ([]FieldSpec, error) {
	if !kind.Valid() {
		return nil, NewSchemaError(kind)
	}
	def, err := e.schemas.Definition(kind)
	if err != nil {
		return nil, NewSchemaError(kind)
	}

	out := make([]FieldSpec, 0, len(def.Required))
	for _, name := range def.Required {
		out = append(out, FieldSpec{
			Name:        name,
			Description: def.Descriptions[name],
			Question:    schema.QuestionFor(string(kind), name),
			Options:     e.schemas.AllowedValues(kind, name),
		})
	}
	return out, nil
}
