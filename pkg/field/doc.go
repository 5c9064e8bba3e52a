// Package field renders an entity attribute as an in-place editable element:
// the escaped value wrapped in a tag, followed by the script that activates
// the editor widget on that tag.
package field
