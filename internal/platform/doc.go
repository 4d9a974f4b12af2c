package platform

// Package platform contains filesystem helpers and YouTube URL utilities
// shared by the services.
