// Package pkguid provides ID generators behind small interfaces.
//
// UUID (version 7) backs correlation IDs. Snowflake produces sortable numeric
// IDs; NumberString exposes them as strings for upload IDs.
package pkguid
