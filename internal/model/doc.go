package model

// Package model defines domain data structures used across the app: download
// and loop tasks plus status enums. Structures carry explicit state
// transitions driven by the services.
