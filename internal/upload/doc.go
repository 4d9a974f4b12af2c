package upload

// Package upload publishes the looped video to YouTube through the Data API
// v3, using OAuth client secrets and a cached token file.
