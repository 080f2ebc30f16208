package invoices

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"invoice-pdf/invoice-pdf-backend/pkg/storage"
)

const pdfContentType = "application/pdf"

type StorageProvider struct {
	s3     storage.S3Client
	bucket string
	expiry time.Duration
	now    func() time.Time
}

func NewStorageProvider(s3 storage.S3Client, bucket string, expiry time.Duration) *StorageProvider {
	return &StorageProvider{
		s3:     s3,
		bucket: bucket,
		expiry: expiry,
		now:    time.Now,
	}
}

// UploadInvoice stores the PDF and returns its key and a presigned GET URL
func (p *StorageProvider) UploadInvoice(ctx context.Context, pdf []byte, orderName, shop string) (string, string, error) {
	key := p.GenerateS3Key(shop, orderName, p.now())

	if err := p.s3.Upload(ctx, p.bucket, key, bytes.NewReader(pdf), pdfContentType); err != nil {
		return "", "", err
	}

	url, err := p.s3.GetPresignedURL(ctx, p.bucket, key, p.expiry)
	if err != nil {
		return "", "", err
	}
	return key, url, nil
}

func (p *StorageProvider) GenerateS3Key(shop, orderName string, at time.Time) string {
	return fmt.Sprintf("shops/%s/invoices/invoice-%s-%d.pdf", shop, sanitizeOrderName(orderName), at.UnixMilli())
}

// sanitizeOrderName keeps letters, digits, dash and underscore ("#1001" -> "1001")
func sanitizeOrderName(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return -1
	}, name)
	if clean == "" {
		return "order"
	}
	return clean
}
