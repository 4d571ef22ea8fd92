// Package listingtest provides in-memory stand-ins for the listing
// service's database and blob storage, with failure injection.
package listingtest

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/kennel/internal/listing"
	"github.com/dmitrymomot/kennel/internal/repository"
	"github.com/dmitrymomot/kennel/pkg/storage"
)

var (
	ErrUpload = errors.New("upload refused")
	ErrDB     = errors.New("db down")
)

// Store is an in-memory repository with the dogs -> dog_images cascade.
// Fields may be set before use, not concurrently with calls.
type Store struct {
	mu     sync.Mutex
	dogs   map[uuid.UUID]repository.Dog
	images map[uuid.UUID]repository.DogImage
	seq    int

	// FailOn makes the named method return the error.
	FailOn map[string]error
	// FailImageAt fails the n-th CreateDogImage call, 0-based; -1 disables.
	FailImageAt int
	imageCalls  int
	// FailSortAt fails the n-th UpdateDogImageSortOrder call; -1 disables.
	FailSortAt int
	sortCalls  int
}

func NewStore() *Store {
	return &Store{
		dogs:        make(map[uuid.UUID]repository.Dog),
		images:      make(map[uuid.UUID]repository.DogImage),
		FailOn:      make(map[string]error),
		FailImageAt: -1,
		FailSortAt:  -1,
	}
}

func (f *Store) check(ctx context.Context, method string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.FailOn[method]
}

func (f *Store) now() time.Time {
	f.seq++
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.seq) * time.Second)
}

func (f *Store) CreateDog(ctx context.Context, arg repository.CreateDogParams) (repository.Dog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(ctx, "CreateDog"); err != nil {
		return repository.Dog{}, err
	}
	for _, d := range f.dogs {
		if d.Slug == arg.Slug {
			return repository.Dog{}, repository.ErrConflict
		}
	}
	now := f.now()
	d := repository.Dog{
		ID:           uuid.New(),
		Name:         arg.Name,
		Slug:         arg.Slug,
		Breed:        arg.Breed,
		Sex:          arg.Sex,
		Color:        arg.Color,
		AgeWeeks:     arg.AgeWeeks,
		WeightLbs:    arg.WeightLbs,
		PriceCents:   arg.PriceCents,
		DepositCents: arg.DepositCents,
		Status:       arg.Status,
		Description:  arg.Description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.dogs[d.ID] = d
	return d, nil
}

func (f *Store) GetDog(ctx context.Context, id uuid.UUID) (repository.Dog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(ctx, "GetDog"); err != nil {
		return repository.Dog{}, err
	}
	d, ok := f.dogs[id]
	if !ok {
		return repository.Dog{}, repository.ErrNotFound
	}
	return d, nil
}

func (f *Store) UpdateDog(ctx context.Context, arg repository.UpdateDogParams) (repository.Dog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(ctx, "UpdateDog"); err != nil {
		return repository.Dog{}, err
	}
	d, ok := f.dogs[arg.ID]
	if !ok {
		return repository.Dog{}, repository.ErrNotFound
	}
	for _, other := range f.dogs {
		if other.ID != d.ID && other.Slug == arg.Slug {
			return repository.Dog{}, repository.ErrConflict
		}
	}
	d.Name, d.Slug, d.Breed, d.Sex, d.Color = arg.Name, arg.Slug, arg.Breed, arg.Sex, arg.Color
	d.AgeWeeks, d.WeightLbs, d.PriceCents, d.DepositCents = arg.AgeWeeks, arg.WeightLbs, arg.PriceCents, arg.DepositCents
	d.Status, d.Description = arg.Status, arg.Description
	d.UpdatedAt = f.now()
	f.dogs[d.ID] = d
	return d, nil
}

func (f *Store) SetDogCover(ctx context.Context, id uuid.UUID, url *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(ctx, "SetDogCover"); err != nil {
		return err
	}
	d, ok := f.dogs[id]
	if !ok {
		return repository.ErrNotFound
	}
	d.CoverImageURL = url
	f.dogs[id] = d
	return nil
}

func (f *Store) DeleteDog(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(ctx, "DeleteDog"); err != nil {
		return err
	}
	if _, ok := f.dogs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.dogs, id)
	for imgID, img := range f.images {
		if img.DogID == id {
			delete(f.images, imgID)
		}
	}
	return nil
}

func (f *Store) CreateDogImage(ctx context.Context, arg repository.CreateDogImageParams) (repository.DogImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := f.imageCalls
	f.imageCalls++
	if err := f.check(ctx, "CreateDogImage"); err != nil {
		return repository.DogImage{}, err
	}
	if call == f.FailImageAt {
		return repository.DogImage{}, ErrDB
	}
	img := repository.DogImage{
		ID:         uuid.New(),
		DogID:      arg.DogID,
		URL:        arg.URL,
		StorageKey: arg.StorageKey,
		Alt:        arg.Alt,
		SortOrder:  arg.SortOrder,
		CreatedAt:  f.now(),
	}
	f.images[img.ID] = img
	return img, nil
}

func (f *Store) GetDogImage(ctx context.Context, id uuid.UUID) (repository.DogImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(ctx, "GetDogImage"); err != nil {
		return repository.DogImage{}, err
	}
	img, ok := f.images[id]
	if !ok {
		return repository.DogImage{}, repository.ErrNotFound
	}
	return img, nil
}

func (f *Store) ListDogImages(ctx context.Context, dogID uuid.UUID) ([]repository.DogImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(ctx, "ListDogImages"); err != nil {
		return nil, err
	}
	return f.imagesOf(dogID), nil
}

func (f *Store) imagesOf(dogID uuid.UUID) []repository.DogImage {
	var out []repository.DogImage
	for _, img := range f.images {
		if img.DogID == dogID {
			out = append(out, img)
		}
	}
	slices.SortFunc(out, func(a, b repository.DogImage) int {
		return cmp.Or(cmp.Compare(a.SortOrder, b.SortOrder), a.CreatedAt.Compare(b.CreatedAt))
	})
	return out
}

func (f *Store) MaxDogImageSortOrder(ctx context.Context, dogID uuid.UUID) (int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(ctx, "MaxDogImageSortOrder"); err != nil {
		return 0, err
	}
	n := int32(-1)
	for _, img := range f.imagesOf(dogID) {
		n = max(n, img.SortOrder)
	}
	return n, nil
}

func (f *Store) UpdateDogImageSortOrder(ctx context.Context, arg repository.UpdateDogImageSortOrderParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := f.sortCalls
	f.sortCalls++
	if err := f.check(ctx, "UpdateDogImageSortOrder"); err != nil {
		return err
	}
	if call == f.FailSortAt {
		return ErrDB
	}
	img, ok := f.images[arg.ID]
	if !ok || img.DogID != arg.DogID {
		return repository.ErrNotFound
	}
	img.SortOrder = arg.SortOrder
	f.images[arg.ID] = img
	return nil
}

func (f *Store) DeleteDogImage(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(ctx, "DeleteDogImage"); err != nil {
		return err
	}
	if _, ok := f.images[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.images, id)
	return nil
}

func (f *Store) DeleteDogImagesByDog(ctx context.Context, dogID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(ctx, "DeleteDogImagesByDog"); err != nil {
		return err
	}
	for id, img := range f.images {
		if img.DogID == dogID {
			delete(f.images, id)
		}
	}
	return nil
}

func (f *Store) ListDogs(ctx context.Context) ([]repository.Dog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(ctx, "ListDogs"); err != nil {
		return nil, err
	}
	return f.sortedDogs(func(repository.Dog) bool { return true }), nil
}

func (f *Store) ListPublicDogs(ctx context.Context) ([]repository.Dog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(ctx, "ListPublicDogs"); err != nil {
		return nil, err
	}
	return f.sortedDogs(func(d repository.Dog) bool {
		return d.Status == repository.DogAvailable || d.Status == repository.DogReserved
	}), nil
}

func (f *Store) GetPublicDogBySlug(ctx context.Context, slug string) (repository.Dog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(ctx, "GetPublicDogBySlug"); err != nil {
		return repository.Dog{}, err
	}
	for _, d := range f.dogs {
		if d.Slug == slug && d.Status != repository.DogHidden {
			return d, nil
		}
	}
	return repository.Dog{}, repository.ErrNotFound
}

func (f *Store) ListImagesForDogs(ctx context.Context, dogIDs []uuid.UUID) ([]repository.DogImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(ctx, "ListImagesForDogs"); err != nil {
		return nil, err
	}
	var out []repository.DogImage
	for _, id := range dogIDs {
		out = append(out, f.imagesOf(id)...)
	}
	return out, nil
}

// sortedDogs returns matching dogs newest first.
func (f *Store) sortedDogs(keep func(repository.Dog) bool) []repository.Dog {
	out := make([]repository.Dog, 0, len(f.dogs))
	for _, d := range f.dogs {
		if keep(d) {
			out = append(out, d)
		}
	}
	slices.SortFunc(out, func(a, b repository.Dog) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

func (f *Store) DogCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.dogs)
}

func (f *Store) ImageCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.images)
}

// Blobs is an in-memory bucket that refuses overwrites like the S3
// implementation does.
type Blobs struct {
	mu      sync.Mutex
	objects map[string][]byte

	// FailPutAt fails the n-th Put call, 0-based; -1 disables.
	FailPutAt int
	putCalls  int
	// OnPut runs before each Put with its call index.
	OnPut func(i int)

	DeleteErr     error
	DeleteManyErr error
	ListErr       error
	deleteMany    [][]string
}

func NewBlobs() *Blobs {
	return &Blobs{objects: make(map[string][]byte), FailPutAt: -1}
}

func (b *Blobs) Put(ctx context.Context, key string, r io.Reader, _ int64, _ string) error {
	b.mu.Lock()
	call := b.putCalls
	b.putCalls++
	hook := b.OnPut
	b.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if call == b.FailPutAt {
		return ErrUpload
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.objects[key]; ok {
		return storage.ErrAlreadyExists
	}
	b.objects[key] = data
	return nil
}

func (b *Blobs) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

func (b *Blobs) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.DeleteErr != nil {
		return b.DeleteErr
	}
	delete(b.objects, key)
	return nil
}

func (b *Blobs) DeleteMany(ctx context.Context, keys []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	b.deleteMany = append(b.deleteMany, slices.Clone(keys))
	if b.DeleteManyErr != nil {
		return b.DeleteManyErr
	}
	for _, k := range keys {
		delete(b.objects, k)
	}
	return nil
}

func (b *Blobs) List(ctx context.Context, prefix string) ([]storage.Object, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b.ListErr != nil {
		return nil, b.ListErr
	}
	var out []storage.Object
	for k, v := range b.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, storage.Object{Key: k, Size: int64(len(v))})
		}
	}
	return out, nil
}

// PutCalls counts Put attempts, failed ones included.
func (b *Blobs) PutCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.putCalls
}

// DeleteManyCalls returns the key batches passed to DeleteMany.
func (b *Blobs) DeleteManyCalls() [][]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.deleteMany)
}

func (b *Blobs) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}

func (b *Blobs) Has(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[key]
	return ok
}

// JPEG returns a small file declared as image/jpeg whose body starts with
// the JPEG magic bytes.
func JPEG(name string) listing.File {
	body := []byte("\xff\xd8\xff" + name)
	return listing.File{Body: bytes.NewReader(body), Size: int64(len(body)), ContentType: "image/jpeg"}
}
