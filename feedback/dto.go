// Package feedback, as part of the feedback module.
// This file, `dto.go`, defines the structure bound from the feedback form,
// shared by the add and update flows. The `form` tags name the HTML inputs;
// the `validate` tags are consumed by the forms package.
package feedback

// Form carries the feedback form fields. The title cap mirrors the column
// width in the feedback table.
type Form struct {
	Title   string `form:"title" validate:"required,max=100"`
	Content string `form:"content" validate:"required"`
}
