// Package openapi derives form trees from OpenAPI 3 operations. The request
// body schema of an operation becomes a container whose properties map onto
// text, checkbox and nested container nodes. kin-openapi does the loading and
// reference resolution; callers only see model.Node values.
package openapi
