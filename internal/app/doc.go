// Package app contains the core application logic: session initiation
// (setup, parameter workbooks, weather datasets, logging and the session
// config) and the batch driver that runs the registered model stages. It is
// decoupled from any specific entrypoint like a CLI or the form TUI.
package app
