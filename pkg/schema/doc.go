// Package schema loads declarative form trees from JSON or YAML documents.
//
// A document maps form ids to a tree of field specs:
//
//	forms:
//	  signup:
//	    className: signup
//	    fields:
//	      - name: email
//	        label: Email
//	        validation: EMAIL
//	      - kind: checkbox
//	        name: terms
//	        required: true
//
// Specs without a kind are text fields unless they carry nested fields, in
// which case they are groups.
package schema
