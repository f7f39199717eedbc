// Copyright 2026 The wnfs-go Authors
// This file is part of the wnfs-go library.
//
// The wnfs-go library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The wnfs-go library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the wnfs-go library. If not, see <http://www.gnu.org/licenses/>.

package blockstore

import (
	"bytes"
	"context"
	"io/ioutil"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/wnfs-go/wnfs/log"
	"github.com/wnfs-go/wnfs/wnfserr"
)

// S3Store stores one object per CID in a single S3 bucket, keyed by the
// CID's hex string, for deployments that want durable off-box storage
// without running a dedicated block-store server.
type S3Store struct {
	bucket   string
	prefix   string
	client   *s3.S3
	uploader *s3manager.Uploader
	log      log.Logger
}

// NewS3Store builds an S3Store using the default AWS credential chain,
// scoping all keys under prefix within bucket.
func NewS3Store(bucket, prefix string) (*S3Store, error) {
	sess, err := session.NewSession()
	if err != nil {
		return nil, wnfserr.Wrap(wnfserr.TransportError, "aws session", err)
	}
	return &S3Store{
		bucket:   bucket,
		prefix:   prefix,
		client:   s3.New(sess),
		uploader: s3manager.NewUploader(sess),
		log:      log.New("component", "blockstore/s3", "bucket", bucket),
	}, nil
}

func (s *S3Store) objectKey(cid CID) string {
	return s.prefix + cid.String()
}

func (s *S3Store) Put(ctx context.Context, codec Codec, data []byte) (CID, error) {
	if len(data) > MaxBlockSize {
		return CID{}, wnfserr.ErrMaxBlockSize
	}
	cid := NewCID(codec, data)
	if has, _ := s.Has(ctx, cid); has {
		return cid, nil
	}
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(cid)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return CID{}, wnfserr.Wrap(wnfserr.TransportError, "s3 put", err)
	}
	s.log.Debug("put block", "cid", cid, "size", len(data))
	return cid, nil
}

func (s *S3Store) Get(ctx context.Context, cid CID) ([]byte, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(cid)),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, wnfserr.ErrNotFound
		}
		return nil, wnfserr.Wrap(wnfserr.TransportError, "s3 get", err)
	}
	defer out.Body.Close()
	data, err := ioutil.ReadAll(out.Body)
	if err != nil {
		return nil, wnfserr.Wrap(wnfserr.TransportError, "s3 read body", err)
	}
	return data, nil
}

func (s *S3Store) Has(ctx context.Context, cid CID) (bool, error) {
	_, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(cid)),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && (aerr.Code() == "NotFound" || aerr.Code() == s3.ErrCodeNoSuchKey) {
			return false, nil
		}
		return false, wnfserr.Wrap(wnfserr.TransportError, "s3 head", err)
	}
	return true, nil
}
