package blobfs

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
)

// GetObject reads an object, optionally sliced to an inclusive byte range,
// and returns the result as a single chunk. The whole object is read into
// memory; a transport wanting to cap per-message size must segment the
// response itself. A range end past end-of-file is clamped, as is a range
// start past end-of-file (which yields an empty chunk with IsLast set).
func (p *FsProvider) GetObject(ctx context.Context, tenantID string, req GetObjectRequest) (GetObjectResponse, error) {
	root, err := p.root(tenantID)
	if err != nil {
		return GetObjectResponse{}, err
	}
	opath, err := objectPath(root, req.ContainerID, req.ObjectID)
	if err != nil {
		return GetObjectResponse{}, err
	}

	var data []byte
	err = p.withIO(ctx, func() error {
		var err error
		data, err = os.ReadFile(opath)
		if err != nil {
			return classify(err)
		}
		return nil
	})
	if err != nil {
		return GetObjectResponse{}, err
	}

	size := uint64(len(data))
	start := uint64(0)
	if req.RangeStart != nil {
		start = *req.RangeStart
	}
	if start > size {
		start = size
	}
	end := size
	if req.RangeEnd != nil && *req.RangeEnd < size {
		end = *req.RangeEnd + 1
	}
	if end < start {
		end = start
	}

	p.log.WithFields(logrus.Fields{
		"tenant":    tenantID,
		"container": req.ContainerID,
		"object":    req.ObjectID,
		"start":     start,
		"end":       end,
	}).Info("Retrieving chunk")

	chunk := Chunk{
		ContainerID: req.ContainerID,
		ObjectID:    req.ObjectID,
		Bytes:       data[start:end],
		Offset:      start,
		IsLast:      end >= size,
	}
	return GetObjectResponse{
		ContentLength: uint64(len(chunk.Bytes)),
		InitialChunk:  chunk,
	}, nil
}
