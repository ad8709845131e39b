package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verdict-sh/verdict/internal/client"
	"github.com/verdict-sh/verdict/internal/docval"
)

// mustDoc parses a YAML test document for use in tests.
func mustDoc(t *testing.T, src string) *docval.Document {
	t.Helper()
	v, err := docval.ParseYAML([]byte(src))
	require.NoError(t, err)
	doc, err := docval.AsDocument(v)
	require.NoError(t, err)
	return doc
}

// fakeSession is a named session handle for binding tests.
type fakeSession string

func (s fakeSession) ID() string { return string(s) }

// fakeCollection is a canned-result collaborator. It records how it was
// called so tests can verify what the interpreter passed through, and
// counts calls so cancellation tests can prove it was never reached.
type fakeCollection struct {
	calls int

	lastSession client.Session
	lastFilter  *docval.Document

	deleteResult *client.DeleteResult
	insertResult *client.InsertOneResult
	insertMany   *client.InsertManyResult
	updateResult *client.UpdateResult
	err          error
}

func (f *fakeCollection) record(sess client.Session, filter *docval.Document) {
	f.calls++
	f.lastSession = sess
	f.lastFilter = filter
}

func (f *fakeCollection) DeleteOne(ctx context.Context, sess client.Session, filter *docval.Document, opts *client.DeleteOptions) (*client.DeleteResult, error) {
	f.record(sess, filter)
	return f.deleteResult, f.err
}

func (f *fakeCollection) DeleteOneAsync(ctx context.Context, sess client.Session, filter *docval.Document, opts *client.DeleteOptions) *client.Future[*client.DeleteResult] {
	return client.Go(func() (*client.DeleteResult, error) {
		return f.DeleteOne(ctx, sess, filter, opts)
	})
}

func (f *fakeCollection) DeleteMany(ctx context.Context, sess client.Session, filter *docval.Document, opts *client.DeleteOptions) (*client.DeleteResult, error) {
	f.record(sess, filter)
	return f.deleteResult, f.err
}

func (f *fakeCollection) DeleteManyAsync(ctx context.Context, sess client.Session, filter *docval.Document, opts *client.DeleteOptions) *client.Future[*client.DeleteResult] {
	return client.Go(func() (*client.DeleteResult, error) {
		return f.DeleteMany(ctx, sess, filter, opts)
	})
}

func (f *fakeCollection) InsertOne(ctx context.Context, sess client.Session, document *docval.Document) (*client.InsertOneResult, error) {
	f.record(sess, nil)
	return f.insertResult, f.err
}

func (f *fakeCollection) InsertOneAsync(ctx context.Context, sess client.Session, document *docval.Document) *client.Future[*client.InsertOneResult] {
	return client.Go(func() (*client.InsertOneResult, error) {
		return f.InsertOne(ctx, sess, document)
	})
}

func (f *fakeCollection) InsertMany(ctx context.Context, sess client.Session, documents []*docval.Document, opts *client.InsertManyOptions) (*client.InsertManyResult, error) {
	f.record(sess, nil)
	return f.insertMany, f.err
}

func (f *fakeCollection) InsertManyAsync(ctx context.Context, sess client.Session, documents []*docval.Document, opts *client.InsertManyOptions) *client.Future[*client.InsertManyResult] {
	return client.Go(func() (*client.InsertManyResult, error) {
		return f.InsertMany(ctx, sess, documents, opts)
	})
}

func (f *fakeCollection) UpdateOne(ctx context.Context, sess client.Session, filter, update *docval.Document, opts *client.UpdateOptions) (*client.UpdateResult, error) {
	f.record(sess, filter)
	return f.updateResult, f.err
}

func (f *fakeCollection) UpdateOneAsync(ctx context.Context, sess client.Session, filter, update *docval.Document, opts *client.UpdateOptions) *client.Future[*client.UpdateResult] {
	return client.Go(func() (*client.UpdateResult, error) {
		return f.UpdateOne(ctx, sess, filter, update, opts)
	})
}

func (f *fakeCollection) UpdateMany(ctx context.Context, sess client.Session, filter, update *docval.Document, opts *client.UpdateOptions) (*client.UpdateResult, error) {
	f.record(sess, filter)
	return f.updateResult, f.err
}

func (f *fakeCollection) UpdateManyAsync(ctx context.Context, sess client.Session, filter, update *docval.Document, opts *client.UpdateOptions) *client.Future[*client.UpdateResult] {
	return client.Go(func() (*client.UpdateResult, error) {
		return f.UpdateMany(ctx, sess, filter, update, opts)
	})
}

func (f *fakeCollection) ReplaceOne(ctx context.Context, sess client.Session, filter, replacement *docval.Document, opts *client.ReplaceOptions) (*client.UpdateResult, error) {
	f.record(sess, filter)
	return f.updateResult, f.err
}

func (f *fakeCollection) ReplaceOneAsync(ctx context.Context, sess client.Session, filter, replacement *docval.Document, opts *client.ReplaceOptions) *client.Future[*client.UpdateResult] {
	return client.Go(func() (*client.UpdateResult, error) {
		return f.ReplaceOne(ctx, sess, filter, replacement, opts)
	})
}

var _ client.Collection = (*fakeCollection)(nil)

// fakeTarget builds a target over a fake collection with two named sessions.
func fakeTarget(coll *fakeCollection) *Target {
	return &Target{
		Collection: coll,
		Sessions: map[string]client.Session{
			"session0": fakeSession("session0"),
			"session1": fakeSession("session1"),
		},
	}
}
