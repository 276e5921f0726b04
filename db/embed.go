// Package db embeds the database schema and seed data files.
package db

import _ "embed"

// Schema contains the DDL statements for the products and orders tables.
//
//go:embed migrations/001_schema.sql
var Schema string
