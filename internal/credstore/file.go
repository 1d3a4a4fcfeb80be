package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// File — хранилище в JSON-файле, общее для нескольких процессов
// (serve и команды CLI). Каждая операция перечитывает файл под
// межпроцессной блокировкой path+".lock", поэтому изменения другого
// процесса видны сразу и не затираются. Запись атомарна: новое содержимое
// пишется во временный файл рядом и переименовывается поверх старого.
type File struct {
	// mu сериализует горутины одного процесса: flock.Flock не различает их.
	mu   sync.Mutex
	path string
	lock *flock.Flock
}

// lockRetry — шаг повторной попытки захвата блокировки.
const lockRetry = 10 * time.Millisecond

// OpenFile открывает (или создаёт при первой записи) файл хранилища.
// Повреждённый файл обнаруживается сразу.
func OpenFile(path string) (*File, error) {
	const op = "credstore.OpenFile"

	f := &File{path: path, lock: flock.New(path + ".lock")}

	if _, err := f.read(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return f, nil
}

func (f *File) Get(ctx context.Context, key string) (string, bool, error) {
	const op = "credstore.File.Get"

	var (
		v  string
		ok bool
	)
	err := f.withLock(ctx, false, func() error {
		data, err := f.read()
		if err != nil {
			return err
		}
		v, ok = data[key]
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}

	return v, ok, nil
}

func (f *File) Set(ctx context.Context, values map[string]string) error {
	const op = "credstore.File.Set"

	if err := validate(values); err != nil {
		return err
	}

	err := f.withLock(ctx, true, func() error {
		data, err := f.read()
		if err != nil {
			return err
		}
		for k, v := range values {
			data[k] = v
		}
		return f.flush(data)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (f *File) Delete(ctx context.Context, keys ...string) error {
	const op = "credstore.File.Delete"

	err := f.withLock(ctx, true, func() error {
		data, err := f.read()
		if err != nil {
			return err
		}
		for _, k := range keys {
			delete(data, k)
		}
		return f.flush(data)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (f *File) Close() error { return f.lock.Close() }

// withLock выполняет fn под f.mu и файловой блокировкой
// (exclusive для записи, shared для чтения).
func (f *File) withLock(ctx context.Context, exclusive bool, fn func() error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = f.lock.TryLockContext(ctx, lockRetry)
	} else {
		locked, err = f.lock.TryRLockContext(ctx, lockRetry)
	}
	if err != nil {
		return fmt.Errorf("lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("lock: %w", ctx.Err())
	}
	defer func() { _ = f.lock.Unlock() }()

	return fn()
}

// read возвращает текущее содержимое файла; отсутствующий или пустой файл
// означает пустое хранилище.
func (f *File) read() (map[string]string, error) {
	data := make(map[string]string)

	raw, err := os.ReadFile(f.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return data, nil
	case err != nil:
		return nil, fmt.Errorf("read: %w", err)
	}

	if len(raw) == 0 {
		return data, nil
	}

	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode %q: %w", f.path, err)
	}

	return data, nil
}

// flush вызывается под exclusive-блокировкой.
func (f *File) flush(data map[string]string) error {
	const op = "credstore.File.flush"

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: encode: %w", op, err)
	}

	dir := filepath.Dir(f.path)

	tmp, err := os.CreateTemp(dir, ".credstore-*")
	if err != nil {
		return fmt.Errorf("%s: tmp: %w", op, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%s: write: %w", op, err)
	}

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%s: chmod: %w", op, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%s: close: %w", op, err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%s: rename: %w", op, err)
	}

	return nil
}
