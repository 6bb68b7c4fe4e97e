package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/kailas-cloud/esbridge/internal/db"
	"github.com/kailas-cloud/esbridge/internal/domain"
	dombatch "github.com/kailas-cloud/esbridge/internal/domain/batch"
	domdoc "github.com/kailas-cloud/esbridge/internal/domain/document"
	"github.com/kailas-cloud/esbridge/internal/domain/document/patch"
	"github.com/kailas-cloud/esbridge/internal/repository/engineerr"
)

// store is the consumer interface for documents (ISP).
type store interface {
	IndexDocument(ctx context.Context, index, id string, fields map[string]any, opts db.WriteOptions) (*db.WriteResult, error)
	Bulk(ctx context.Context, index string, items []db.BulkItem, refresh string) ([]db.BulkItemResult, error)
	GetDocument(ctx context.Context, index, id string) (*db.StoredDocument, error)
	UpdateDocument(ctx context.Context, index, id string, partial map[string]any, opts db.WriteOptions) (*db.WriteResult, error)
	DeleteDocument(ctx context.Context, index, id string, opts db.WriteOptions) (*db.WriteResult, error)
}

// Repo implements usecase/document.Repository and usecase/batch.Repository.
type Repo struct {
	store store
}

// New creates a document repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Index writes a full document. An empty id lets the engine generate one.
func (r *Repo) Index(ctx context.Context, doc domdoc.Document, opts domdoc.WriteOptions) (domdoc.Ack, error) {
	wr, err := r.store.IndexDocument(ctx, doc.Index(), doc.ID(), doc.Fields(), toWriteOptions(opts))
	if err != nil {
		return domdoc.Ack{}, r.writeError(doc.Index(), doc.ID(), "index", err)
	}
	return toAck(doc.Index(), wr), nil
}

// Get returns a document by id.
func (r *Repo) Get(ctx context.Context, index, id string) (domdoc.Document, error) {
	sd, err := r.store.GetDocument(ctx, index, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get %s/%s: %w", index, id, engineerr.Translate(err))
	}
	return domdoc.Reconstruct(index, sd.ID, sd.Source, sd.Version, sd.SeqNo, sd.PrimaryTerm), nil
}

// Update merges a patch into the stored document.
func (r *Repo) Update(
	ctx context.Context, index, id string, p patch.Patch, opts domdoc.WriteOptions,
) (domdoc.Ack, error) {
	wr, err := r.store.UpdateDocument(ctx, index, id, p.Fields(), toWriteOptions(opts))
	if err != nil {
		return domdoc.Ack{}, r.writeError(index, id, "update", err)
	}
	return toAck(index, wr), nil
}

// Delete removes a document by id.
func (r *Repo) Delete(ctx context.Context, index, id string, opts domdoc.WriteOptions) (domdoc.Ack, error) {
	wr, err := r.store.DeleteDocument(ctx, index, id, toWriteOptions(opts))
	if err != nil {
		return domdoc.Ack{}, r.writeError(index, id, "delete", err)
	}
	return toAck(index, wr), nil
}

// Bulk indexes docs in one request. Result positions refer to docs.
// A whole-request failure is returned as an error; item failures live in their result.
func (r *Repo) Bulk(
	ctx context.Context, index string, docs []domdoc.Document, refresh string,
) ([]dombatch.Result, error) {
	if len(docs) == 0 {
		return []dombatch.Result{}, nil
	}

	items := lo.Map(docs, func(d domdoc.Document, _ int) db.BulkItem {
		return db.BulkItem{ID: d.ID(), Source: d.Fields()}
	})

	res, err := r.store.Bulk(ctx, index, items, refresh)
	if err != nil {
		return nil, fmt.Errorf("bulk %s: %w", index, engineerr.Translate(err))
	}

	return lo.Map(res, func(item db.BulkItemResult, i int) dombatch.Result {
		if item.Err != nil {
			return dombatch.NewError(i, item.ID, engineerr.Translate(item.Err))
		}
		return dombatch.NewOK(i, item.ID, item.Version)
	}), nil
}

func (r *Repo) writeError(index, id, op string, err error) error {
	if errors.Is(err, db.ErrVersionConflict) {
		return fmt.Errorf("%s %s/%s: %w", op, index, id,
			errors.Join(domain.NewVersionConflict(index, id, engineerr.Reason(err)), err))
	}
	return fmt.Errorf("%s %s/%s: %w", op, index, id, engineerr.Translate(err))
}

func toWriteOptions(opts domdoc.WriteOptions) db.WriteOptions {
	out := db.WriteOptions{Refresh: opts.Refresh}
	if opts.If != nil {
		out.IfSeqNo = &opts.If.SeqNo
		out.IfPrimaryTerm = &opts.If.PrimaryTerm
	}
	return out
}

func toAck(index string, wr *db.WriteResult) domdoc.Ack {
	ack := domdoc.Ack{
		Index:       wr.Index,
		ID:          wr.ID,
		Version:     wr.Version,
		SeqNo:       wr.SeqNo,
		PrimaryTerm: wr.PrimaryTerm,
		Result:      wr.Result,
	}
	if ack.Index == "" {
		ack.Index = index
	}
	return ack
}
