package util

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"path"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// newGCSClientHook is swapped for a fake-backed client in tests.
var newGCSClientHook = func(ctx context.Context) (*storage.Client, error) {
	return storage.NewClient(ctx)
}

// UploadBase64ToGCS stores a base64-encoded payload as a bucket object and
// returns its gs:// URL plus the byte size. Data-URL prefixes
// ("data:video/mp4;base64,...") are stripped before decoding.
func UploadBase64ToGCS(base64Data, contentType, bucketName, objectName string) (string, int64, error) {
	ctx := context.Background()
	client, err := newGCSClientHook(ctx)
	if err != nil {
		return "", 0, err
	}
	defer client.Close()

	if strings.Contains(base64Data, ",") {
		parts := strings.SplitN(base64Data, ",", 2)
		base64Data = parts[1]
	}

	data, err := base64.StdEncoding.DecodeString(base64Data)
	if err != nil {
		return "", 0, err
	}

	w := client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(objectName))
	}
	if contentType != "" {
		w.ContentType = contentType
	}

	sizeBytes, err := w.Write(data)
	if err != nil {
		return "", 0, err
	}

	if err := w.Close(); err != nil {
		return "", 0, err
	}

	return fmt.Sprintf("gs://%s/%s", bucketName, objectName), int64(sizeBytes), nil
}

// SignedGetURL returns a time-limited download URL for an object, or "" when
// signing is unavailable (e.g. no service-account credentials in dev).
func SignedGetURL(bucketName, objectName string, ttl time.Duration) string {
	ctx := context.Background()
	client, err := newGCSClientHook(ctx)
	if err != nil {
		return ""
	}
	defer client.Close()

	url, err := client.Bucket(bucketName).SignedURL(objectName, &storage.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return ""
	}
	return url
}

// RemoveObjects deletes the given object paths and keeps going on failure.
// The returned error (if any) aggregates every path that could not be removed.
func RemoveObjects(bucketName string, objectPaths []string) error {
	if len(objectPaths) == 0 {
		return nil
	}

	ctx := context.Background()
	client, err := newGCSClientHook(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	var failed []string
	bkt := client.Bucket(bucketName)
	for _, obj := range objectPaths {
		obj = strings.TrimSpace(obj)
		if obj == "" {
			continue
		}
		if err := bkt.Object(obj).Delete(ctx); err != nil && err != storage.ErrObjectNotExist {
			failed = append(failed, obj)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("failed to remove %d object(s): %s", len(failed), strings.Join(failed, ", "))
	}
	return nil
}

// RemovePrefix deletes every object under prefix/ in the bucket.
func RemovePrefix(bucketName, prefix string) error {
	ctx := context.Background()
	client, err := newGCSClientHook(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	bkt := client.Bucket(bucketName)
	prefix = strings.TrimSuffix(prefix, "/")

	it := bkt.Objects(ctx, &storage.Query{Prefix: prefix + "/"})
	for {
		obj, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return err
		}
		if err := bkt.Object(obj.Name).Delete(ctx); err != nil && err != storage.ErrObjectNotExist {
			return err
		}
	}
	return nil
}

// ParseGSURL parses gs://bucket/object into its parts.
func ParseGSURL(gsURL string) (bucket string, objectPath string, err error) {
	gsURL = strings.TrimSpace(gsURL)
	if gsURL == "" {
		return "", "", fmt.Errorf("empty gs url")
	}
	if !strings.HasPrefix(gsURL, "gs://") {
		return "", "", fmt.Errorf("invalid gs url (must start with gs://): %s", gsURL)
	}

	rest := strings.TrimPrefix(gsURL, "gs://")
	slash := strings.Index(rest, "/")
	if slash < 0 || slash == len(rest)-1 {
		return "", "", fmt.Errorf("invalid gs url format: %s", gsURL)
	}

	bucket = strings.TrimSpace(rest[:slash])
	objectPath = strings.TrimSpace(rest[slash+1:])
	if bucket == "" || objectPath == "" {
		return "", "", fmt.Errorf("invalid gs url format: %s", gsURL)
	}
	return bucket, objectPath, nil
}

// SanitizePart normalizes a string for use inside an object path.
func SanitizePart(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.ReplaceAll(s, " ", "_")
	re := regexp.MustCompile(`[^a-z0-9_\-]`)
	s = re.ReplaceAllString(s, "")
	if s == "" {
		return "unknown"
	}
	return s
}

// EntryPrefix is the bucket folder holding every upload of one entry.
func EntryPrefix(entryID uint) string {
	return fmt.Sprintf("entries/%d", entryID)
}
