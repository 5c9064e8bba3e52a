// Package model defines the entity vocabulary shared by the field renderer,
// the update handlers and the bundled stores: entity references, the
// map-backed Record, association reflection results, and the display
// coercion applied before values are escaped into HTML.
package model
