// Package update provides the net/http handlers that receive values submitted
// by in-place editors.
//
// Each handler serves one (entity type, attribute) pair. It accepts POST and
// PUT requests carrying `id` and `value` parameters, loads the entity from a
// Store, assigns the value (resolving one-to-one associations by id unless
// disabled), persists it, and writes the escaped display text of the stored
// value as the response body. Any other method gets 405 with the body
// "Method not allowed" before the store is touched.
//
// Handlers are registered explicitly on a Registry at startup and mounted at
// set_<type>_<attribute> under a base path.
package update
