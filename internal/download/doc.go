package download

// Package download fetches the source video. The primary engine drives the
// yt-dlp binary via go-ytdlp; a pure-Go fallback client is used when the
// binary cannot be installed.
