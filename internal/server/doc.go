// Package server wires the Fiber application that exposes the ensure
// operation and diagnostics endpoints over HTTP. It only hosts the app
// construction and shared middleware; concrete routes live in the routes
// sub-package.
package server
