// Package storage writes downloaded profile pictures to the output folder.
//
// Files are named <username>.<ext>. Every write goes through a temporary
// file in the same folder followed by a rename, so a reader never sees a
// partial image and concurrent writers for the same username leave exactly
// one complete file behind (the last rename wins).
//
// The folder is created on the first Save, not when the Manager is built,
// so a run that finds no mutuals leaves the filesystem untouched.
//
//	manager := storage.NewManager("mutuals")
//	path, err := manager.Save(bytes.NewReader(data), "ada", "jpg")
package storage
