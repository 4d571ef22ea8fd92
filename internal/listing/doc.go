// Package listing creates and maintains dog listings across PostgreSQL and
// blob storage.
//
// Creating a listing is a multi-resource write: the dog row goes in first,
// then every image is uploaded and recorded in input order, then the cover
// is pointed at the first image. Any failure undoes everything written so
// far (blobs, image rows, the dog row) on a context that survives request
// cancellation. Cleanup failures do not mask the original error; they ride
// along on a [*RollbackError].
//
//	svc := listing.NewService(repository.New(pool), s3, listing.WithLogger(log))
//
//	l, err := svc.Create(ctx, listing.Input{Name: "Milo"}, files)
//	var rb *listing.RollbackError
//	if errors.As(err, &rb) {
//	    // rb.Err is the failure, rb.Cleanup lists what could not be undone
//	}
package listing
