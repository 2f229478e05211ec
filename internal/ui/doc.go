// Package ui implements an interactive catalog browser using bubbletea's Elm architecture.
//
// The TUI has two tabs over the catalog plus two modal views:
//  1. [SongsView] : Browse songs, like/unlike and delete them
//  2. [AlbumsView] : Browse albums, like/unlike, delete and cycle subscription plans
//  3. [ConfirmView] : Confirm a delete with y/n
//  4. [EndedView] : Shown once the session is rejected or lacks the admin role
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Session state changes from [auth.Manager] arrive through a buffered channel, so an expired token
// observed by any request moves the browser to [EndedView] on the next update.
//
// Keyboard navigation uses the list's vim-style bindings plus tab, l/u, d, p, r and q, with contextual help
// displayed via charmbracelet/bubbles/help.
package ui
