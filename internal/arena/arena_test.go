package arena

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestAllocBump(t *testing.T) {
	a := New(16)
	buf1, err := a.Alloc(8)
	be.Err(t, err, nil)
	be.Equal(t, len(buf1), 8)

	buf2, err := a.Alloc(8)
	be.Err(t, err, nil)
	be.Equal(t, len(buf2), 8)
	be.Equal(t, a.Remaining(), 0)

	_, err = a.Alloc(8)
	be.Err(t, err, ErrExhausted)
	// failed allocation leaves the offset untouched
	be.Equal(t, a.Remaining(), 0)
}

func TestScopeReset(t *testing.T) {
	a := New(16)
	_, err := a.Alloc(8)
	be.Err(t, err, nil)

	mark := a.EnterScope()
	_, err = a.Alloc(8)
	be.Err(t, err, nil)
	_, err = a.Alloc(8)
	be.Err(t, err, ErrExhausted)

	a.LeaveScope(mark)
	_, err = a.Alloc(8)
	be.Err(t, err, nil)
}

func TestLeaveScopeIdempotent(t *testing.T) {
	a := New(16)
	mark := a.EnterScope()
	_, err := a.Alloc(4)
	be.Err(t, err, nil)

	a.LeaveScope(mark)
	a.LeaveScope(mark)
	be.Equal(t, a.Remaining(), 16)
}

func TestLeaveScopeClamps(t *testing.T) {
	a := New(8)
	a.LeaveScope(Mark(1000))
	be.Equal(t, a.Remaining(), 0)
	a.LeaveScope(Mark(-3))
	be.Equal(t, a.Remaining(), 8)
}

func TestZeroSizeAlloc(t *testing.T) {
	a := New(4)
	before := a.Remaining()
	buf, err := a.Alloc(0)
	be.Err(t, err, nil)
	be.Equal(t, len(buf), 0)
	be.Equal(t, a.Remaining(), before)
}

func TestUninitializedArena(t *testing.T) {
	var a Arena
	_, err := a.Alloc(1)
	be.Err(t, err, ErrExhausted)
	a.LeaveScope(0)

	var nilArena *Arena
	_, err = nilArena.Alloc(1)
	be.Err(t, err, ErrExhausted)
	be.Equal(t, nilArena.Capacity(), 0)
}

func TestFromBuffer(t *testing.T) {
	backing := make([]byte, 4)
	a := FromBuffer(backing)
	buf, err := a.Alloc(4)
	be.Err(t, err, nil)
	buf[0] = 0xAA
	be.Equal(t, backing[0], byte(0xAA))
}

func TestConcatInArena(t *testing.T) {
	a := New(32)
	out := Concat(a, []byte("Hello, "), []byte("Arena!"))
	be.Equal(t, string(out), "Hello, Arena!")
	be.Equal(t, a.Remaining(), 32-len("Hello, Arena!"))
}

func TestConcatHeapFallback(t *testing.T) {
	a := New(4)
	out := Concat(a, []byte("abcd"), []byte("efgh"))
	be.Equal(t, string(out), "abcdefgh")
	// arena untouched after the failed allocation
	be.Equal(t, a.Remaining(), 4)
}

func TestConcatEmpty(t *testing.T) {
	a := New(8)
	be.Equal(t, len(Concat(a, nil, nil)), 0)
	be.Equal(t, a.Remaining(), 8)

	out := Concat(a, nil, []byte("x"))
	be.Equal(t, string(out), "x")
}

func TestConcatString(t *testing.T) {
	be.Equal(t, ConcatString("foo", "bar"), "foobar")
	be.Equal(t, ConcatString("", ""), "")
	be.Equal(t, ConcatString("", "b"), "b")
}

func TestPromote(t *testing.T) {
	a := New(16)
	mark := a.EnterScope()
	buf, err := a.Alloc(3)
	be.Err(t, err, nil)
	copy(buf, "abc")

	out := Promote(buf)
	a.LeaveScope(mark)

	clobber, err := a.Alloc(3)
	be.Err(t, err, nil)
	copy(clobber, "xyz")
	be.Equal(t, string(out), "abc")
}

func TestSentinelIndexing(t *testing.T) {
	b := []byte("hello")
	be.Equal(t, ByteAt(b, 0), byte('h'))
	be.Equal(t, ByteAt(b, 4), byte('o'))
	be.Equal(t, ByteAt(b, 5), byte(0))
	be.Equal(t, ByteAt(b, -1), byte(0))

	be.Equal(t, string(SliceOf(b, 1, 3)), "ell")
	be.Equal(t, string(SliceOf(b, 3, 100)), "lo")
	be.Equal(t, len(SliceOf(b, 9, 2)), 0)
	be.Equal(t, len(SliceOf(b, -1, 2)), 0)
	be.Equal(t, len(SliceOf(b, 0, 0)), 0)
}
