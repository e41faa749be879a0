// Package common contains shared constants and sentinel errors used across
// client and server components.
package common

// AccessTokenHeaderName is the HTTP header used to carry the access token
// on authenticated requests.
const AccessTokenHeaderName = "Authorization"

// TempIDPrefix marks locally assigned identifiers for documents that have
// not yet been confirmed by the remote store. Store-assigned ids never start
// with this prefix.
const TempIDPrefix = "temp_"

// Collection names as they exist in the remote document store.
const (
	CollectionCategorias = "categorias"
	CollectionProductos  = "productos"
	CollectionEmpleados  = "empleados"
	CollectionLibros     = "libros"
	CollectionChat       = "chat"
)
