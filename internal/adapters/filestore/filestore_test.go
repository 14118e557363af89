package filestore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// mockS3Client implements s3Client for testing.
type mockS3Client struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newMockS3() *mockS3Client {
	return &mockS3Client{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (m *mockS3Client) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, _ := io.ReadAll(input.Body)
	m.objects[*input.Key] = data
	m.types[*input.Key] = *input.ContentType
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3Client) DeleteObject(_ context.Context, input *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, *input.Key)
	return &s3.DeleteObjectOutput{}, nil
}

var fixed = time.Date(2026, 5, 17, 10, 0, 0, 0, time.UTC)

func newTestS3(client *mockS3Client) *S3Storage {
	s := newS3Storage(client, S3Config{Bucket: "media", Region: "us-east-1", Endpoint: "https://r2.example.com/"})
	s.now = func() time.Time { return fixed }
	return s
}

// TestS3Storage_Upload verifies key layout, URL and stored bytes.
func TestS3Storage_Upload(t *testing.T) {
	client := newMockS3()
	s := newTestS3(client)

	obj, err := s.Upload(context.Background(), File{Name: "Sunday Sermon (Part 1).PDF", Body: strings.NewReader("%PDF-1.4")})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(obj.Key, "2026/05/") || !strings.HasSuffix(obj.Key, "-sunday-sermon-part-1-.pdf") {
		t.Errorf("Key = %q", obj.Key)
	}
	if obj.URL != "https://r2.example.com/media/"+obj.Key {
		t.Errorf("URL = %q", obj.URL)
	}
	if obj.Size != int64(len("%PDF-1.4")) {
		t.Errorf("Size = %d", obj.Size)
	}
	if obj.MimeType != "application/pdf" {
		t.Errorf("MimeType = %q", obj.MimeType)
	}
	if string(client.objects[obj.Key]) != "%PDF-1.4" {
		t.Errorf("stored = %q", client.objects[obj.Key])
	}
}

// TestS3Storage_UploadFailure verifies provider errors are returned.
func TestS3Storage_UploadFailure(t *testing.T) {
	client := newMockS3()
	client.putErr = errors.New("503 slow down")
	s := newTestS3(client)
	if _, err := s.Upload(context.Background(), File{Name: "a.txt", Body: strings.NewReader("x")}); err == nil {
		t.Fatal("expected error")
	}
	if len(client.objects) != 0 {
		t.Error("nothing should be stored")
	}
}

// TestDetectType verifies the client type, extension and sniffing precedence.
func TestDetectType(t *testing.T) {
	png := "\x89PNG\r\n\x1a\n0000"
	tests := []struct {
		name string
		file File
		data string
		want string
	}{
		{"client type wins", File{Name: "x.bin", MimeType: "video/mp4"}, "data", "video/mp4"},
		{"octet-stream falls through", File{Name: "notes.pdf", MimeType: "application/octet-stream"}, "%PDF-1.4", "application/pdf"},
		{"sniffed", File{Name: "noext"}, png, "image/png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectType(tt.file, []byte(tt.data)); got != tt.want {
				t.Errorf("detectType = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestUpload_Limits verifies empty files are rejected.
func TestUpload_Limits(t *testing.T) {
	s := newTestS3(newMockS3())
	if _, err := s.Upload(context.Background(), File{Name: "a.txt", Body: strings.NewReader("")}); !errors.Is(err, ErrEmpty) {
		t.Errorf("err = %v, want ErrEmpty", err)
	}
}

// TestLocalStorage verifies files land under the directory and can be deleted.
func TestLocalStorage(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir, "/uploads/")
	s.now = func() time.Time { return fixed }

	obj, err := s.Upload(context.Background(), File{Name: "../../etc/passwd", Body: strings.NewReader("hello")})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(obj.URL, "/uploads/2026/05/") {
		t.Errorf("URL = %q", obj.URL)
	}
	path := filepath.Join(dir, filepath.FromSlash(obj.Key))
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "hello" {
		t.Fatalf("stored file = %q, %v", data, err)
	}
	if strings.Contains(obj.Key, "..") {
		t.Errorf("key escapes the directory: %q", obj.Key)
	}

	if err := s.Delete(context.Background(), obj.Key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file still present: %v", err)
	}
	if err := s.Delete(context.Background(), obj.Key); err != nil {
		t.Errorf("second delete should be a no-op: %v", err)
	}
}
