// Package cli provides the interactive gratitudes terminal client.
//
// It wires configuration, the local session store, the API services, the
// playback controller and the external audio tools into a REPL. Typical
// flow: restore a saved session (or log in), start a background
// connectivity watcher, and execute user commands.
//
// Key features:
//   - Register / Login / Logout, with the session kept between runs
//   - Daily gratitudes: add, today, count, dates, show <date>
//   - Affirmations: compose, write, edit, delete, attach and record audio
//   - Playback of one or all affirmations with a repeat policy
//   - Background audio from a YouTube link with volume control
//
// Commands other than help, register, login and exit require a session.
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
