// Package application provides application initialization and dependency
// wiring. It encapsulates the creation of storage, calculator, handlers,
// routers, and HTTP server instances, including seeding the session
// catalogs from configuration or import files, making the main package
// cleaner and more focused on CLI parsing and orchestration.
package application
