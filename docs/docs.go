// Package docs holds the versioned OpenAPI document served by the API.
package docs

import _ "embed"

//go:embed openapi.json
var OpenAPI []byte
