package spotify

// Package spotify integrates with the Spotify Web API: link recognition and
// parsing, the OAuth authorization-code flow, and catalog resolution of
// playlist/album/track links into ordered track batches. JSON responses are
// picked apart with gjson; no generated API client is used.
