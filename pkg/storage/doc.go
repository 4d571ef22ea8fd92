// Package storage stores listing images in an S3-compatible bucket.
//
// Keys are chosen by the caller and never overwritten: Put sends
// If-None-Match: * and a collision surfaces as [ErrAlreadyExists].
//
//	store, err := storage.New(cfg)
//	if err != nil {
//		return err
//	}
//
//	err = store.Put(ctx, "3f2c.../a1b2....jpg", file, size, "image/jpeg")
//	url := store.PublicURL("3f2c.../a1b2....jpg")
//
// List walks every page of ListObjectsV2 under a prefix. DeleteMany
// batches keys into DeleteObjects calls of at most 1000 keys each.
//
// # Validation
//
// Uploads can be checked before they reach the bucket:
//
//	mime, body, err := storage.Sniff(file)
//	err = storage.Validate(size, mime, storage.NotEmpty(), storage.MaxSize(10<<20), storage.ImagesOnly())
//
// Validation failures are *FileValidationError values carrying a stable code.
package storage
