package bufferpool

import "testing"

func TestPool_GetPutReuse(t *testing.T) {
	pool := New(65536)

	buf := pool.Get()
	if len(buf) != 0 {
		t.Errorf("expected zero-length buffer, got %d", len(buf))
	}
	if cap(buf) != 65536 {
		t.Errorf("expected capacity 65536, got %d", cap(buf))
	}

	buf = append(buf, []byte("rtcp")...)
	pool.Put(buf)

	buf2 := pool.Get()
	if len(buf2) != 0 {
		t.Errorf("expected reused buffer to be reset to zero length, got %d", len(buf2))
	}
}

func TestPool_DropsOversizeBuffer(t *testing.T) {
	pool := New(16)
	oversized := make([]byte, 0, 1024)
	pool.Put(oversized) // must not panic; silently dropped

	buf := pool.Get()
	if cap(buf) != 16 {
		t.Errorf("expected fresh buffer with capacity 16, got %d", cap(buf))
	}
}
