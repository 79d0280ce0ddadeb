package fetch

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
	"go.uber.org/zap"
)

const userAgent = "espkit/1.0"

// ErrUnsupportedExtension marks artifact names whose extension maps to
// no known archive format.
var ErrUnsupportedExtension = errors.New("unsupported file extension")

// ArchiveKind selects the decompression applied to a downloaded
// artifact.
type ArchiveKind string

const (
	RawFile ArchiveKind = "none"
	Zip     ArchiveKind = "zip"
	GzTar   ArchiveKind = "tar.gz"
	XzTar   ArchiveKind = "tar.xz"
)

// KindForFile classifies an artifact by the last extension of its file
// name. Unrecognized extensions are an error, never treated as raw.
func KindForFile(name string) (ArchiveKind, error) {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	switch ext {
	case "zip":
		return Zip, nil
	case "gz":
		return GzTar, nil
	case "xz":
		return XzTar, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedExtension, ext)
}

// Client downloads artifacts with a path-existence cache.
type Client struct {
	http *http.Client
	log  *zap.SugaredLogger
}

// NewClient returns a client using the default HTTP transport.
func NewClient(log *zap.SugaredLogger) *Client {
	return &Client{http: http.DefaultClient, log: log}
}

// DownloadFile fetches url into outputDir under fileName. If the
// destination path already exists the network is not touched; existence
// is the entire cache check, so a download that died midway reads as a
// hit on retry. With uncompress set, the response is unpacked into
// outputDir according to the file name's extension instead of being
// written as a single file.
//
// The returned path is outputDir/fileName on every branch. For
// archives that path is bookkeeping only, the meaningful output is the
// extracted tree.
func (c *Client) DownloadFile(ctx context.Context, url, fileName, outputDir string, uncompress bool) (string, error) {
	fullPath := filepath.Join(outputDir, fileName)
	if _, err := os.Stat(fullPath); err == nil {
		c.log.Infof("Using cached file %s", fullPath)
		return fullPath, nil
	}

	kind := RawFile
	if uncompress {
		var err error
		kind, err = KindForFile(fileName)
		if err != nil {
			return "", err
		}
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", outputDir, err)
	}

	c.log.Infof("Downloading %s from %s", fileName, url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	switch kind {
	case RawFile:
		c.log.Debugf("Writing %s", fullPath)
		if err := writeRaw(resp.Body, fullPath); err != nil {
			return "", err
		}
	case Zip:
		c.log.Debugf("Extracting zip into %s", outputDir)
		if err := extractZip(resp.Body, outputDir); err != nil {
			return "", err
		}
	case GzTar:
		c.log.Debugf("Extracting tar.gz into %s", outputDir)
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		if err := untarStream(gz, outputDir); err != nil {
			return "", err
		}
	case XzTar:
		c.log.Debugf("Extracting tar.xz into %s", outputDir)
		xzr, err := xz.NewReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("xz reader: %w", err)
		}
		if err := untarStream(xzr, outputDir); err != nil {
			return "", err
		}
	}
	return fullPath, nil
}

// Extract unpacks a local archive into dest, dispatching on the
// archive's extension the same way DownloadFile does.
func (c *Client) Extract(archivePath, dest string) error {
	kind, err := KindForFile(archivePath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dest, err)
	}

	c.log.Debugf("Extracting %s into %s", archivePath, dest)
	switch kind {
	case Zip:
		return extractZipFile(archivePath, dest)
	case GzTar:
		f, err := os.Open(archivePath)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer f.Close()
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		return untarStream(gz, dest)
	case XzTar:
		f, err := os.Open(archivePath)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer f.Close()
		xzr, err := xz.NewReader(f)
		if err != nil {
			return fmt.Errorf("xz reader: %w", err)
		}
		return untarStream(xzr, dest)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedExtension, kind)
}

func writeRaw(r io.Reader, dest string) error {
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create file %s: %w", dest, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("write file %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close file %s: %w", dest, err)
	}
	return nil
}

// extractZip buffers the stream into a temporary file so the central
// directory can be read, then unpacks every entry into dest.
func extractZip(r io.Reader, dest string) error {
	tmp, err := os.CreateTemp("", "espkit-zip-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		return fmt.Errorf("buffer zip: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return extractZipFile(tmp.Name(), dest)
}

func extractZipFile(archivePath, dest string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		target, err := safeJoin(dest, file.Name)
		if err != nil {
			return err
		}
		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, file.Mode()); err != nil {
				return fmt.Errorf("create dir %s: %w", target, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("prepare file %s: %w", target, err)
		}
		rc, err := file.Open()
		if err != nil {
			return fmt.Errorf("open zip entry %s: %w", file.Name, err)
		}
		out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, file.Mode())
		if err != nil {
			rc.Close()
			return fmt.Errorf("create file %s: %w", target, err)
		}
		if _, err := io.Copy(out, rc); err != nil {
			rc.Close()
			out.Close()
			return fmt.Errorf("copy file %s: %w", target, err)
		}
		rc.Close()
		if err := out.Close(); err != nil {
			return fmt.Errorf("close file %s: %w", target, err)
		}
	}
	return nil
}

func untarStream(r io.Reader, dest string) error {
	tr := tar.NewReader(r)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}
		target, err := safeJoin(dest, header.Name)
		if err != nil {
			return err
		}
		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(header.Mode)); err != nil {
				return fmt.Errorf("create dir %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("prepare file %s: %w", target, err)
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode))
			if err != nil {
				return fmt.Errorf("create file %s: %w", target, err)
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return fmt.Errorf("write file %s: %w", target, err)
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("close file %s: %w", target, err)
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("prepare symlink %s: %w", target, err)
			}
			_ = os.Remove(target)
			if err := os.Symlink(header.Linkname, target); err != nil {
				return fmt.Errorf("create symlink %s: %w", target, err)
			}
		default:
			// Ignore other entry types.
		}
	}
	return nil
}

// safeJoin joins an archive entry name onto dest and rejects names that
// escape it.
func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	clean := filepath.Clean(dest)
	if target != clean && !strings.HasPrefix(target, clean+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry escapes destination: %s", name)
	}
	return target, nil
}
