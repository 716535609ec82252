// Package watcher turns filesystem notifications for the profile directory
// into debounced "directory changed" signals.
//
// Editors typically produce several events for one save (write a temporary
// file, rename it over the original, chmod). DirectoryWatcher rearms a single
// timer on every event and only signals once the directory has been quiet
// for the debounce interval.
package watcher
