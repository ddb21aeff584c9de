// Package mapping holds stub mappings: the request criteria a mock server
// matches incoming requests against and the canned response it returns.
//
// Mappings live in a thread-safe in-memory Store. They can be read from a
// directory of JSON or YAML files (LoadDir), each file holding a single
// mapping or a list, and written back one file per mapping (SaveFile).
// Files are validated against an embedded JSON schema before decoding.
//
// Example mapping file:
//
//	guid: 1f0c9d9a-8a3e-4d35-9b54-9f6a7d0e2b11
//	title: list users
//	request:
//	  methods: [GET]
//	  path: /api/users
//	response:
//	  statusCode: 200
//	  headers:
//	    Content-Type: application/json
//	  bodyAsJson:
//	    - id: 1
//	      name: alice
package mapping
