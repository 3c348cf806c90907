package cpu

const (
	MEMORY_SIZE = 4096 // Default memory size, in bytes.
	WORD_SIZE   = 4    // Bytes in a word.
	HWORD_SIZE  = 2    // Bytes in a half-word.
)

// Memory is a flat, byte addressable, big-endian store.
type Memory struct {
	Data []byte
}

// NewMemory creates a zeroed memory of size bytes.
func NewMemory(size int) (mem *Memory) {
	mem = &Memory{
		Data: make([]byte, size),
	}

	return
}

// Size returns the number of addressable bytes.
func (mem *Memory) Size() int {
	return len(mem.Data)
}

// Reset zeros the memory.
func (mem *Memory) Reset() {
	clear(mem.Data)
}

// check verifies that [addr, addr+length) is addressable.
func (mem *Memory) check(addr int64, length int) (err error) {
	if addr < 0 || addr+int64(length) > int64(len(mem.Data)) {
		if addr >= 0 && addr < int64(len(mem.Data)) {
			addr = int64(len(mem.Data))
		}
		err = ErrAddress(addr)
	}
	return
}

// LoadByte returns the byte at addr.
func (mem *Memory) LoadByte(addr int32) (value byte, err error) {
	err = mem.check(int64(addr), 1)
	if err != nil {
		return
	}

	value = mem.Data[addr]
	return
}

// StoreByte sets the byte at addr.
func (mem *Memory) StoreByte(addr int32, value byte) (err error) {
	err = mem.check(int64(addr), 1)
	if err != nil {
		return
	}

	mem.Data[addr] = value
	return
}

// LoadHalfword returns the big-endian half-word at addr.
func (mem *Memory) LoadHalfword(addr int32) (value uint16, err error) {
	for n := range int32(HWORD_SIZE) {
		var b byte
		b, err = mem.LoadByte(addr + n)
		if err != nil {
			return
		}
		value = (value << 8) | uint16(b)
	}

	return
}

// StoreHalfword stores value as a big-endian half-word at addr.
func (mem *Memory) StoreHalfword(addr int32, value uint16) (err error) {
	err = mem.check(int64(addr), HWORD_SIZE)
	if err != nil {
		return
	}

	for n := int32(HWORD_SIZE - 1); n >= 0; n-- {
		mem.Data[addr+n] = byte(value)
		value >>= 8
	}

	return
}

// LoadWord returns the big-endian word at addr.
func (mem *Memory) LoadWord(addr int32) (value int32, err error) {
	var u uint32
	for n := range int32(WORD_SIZE) {
		var b byte
		b, err = mem.LoadByte(addr + n)
		if err != nil {
			return
		}
		u = (u << 8) | uint32(b)
	}

	value = int32(u)
	return
}

// StoreWord stores value as a big-endian word at addr.
func (mem *Memory) StoreWord(addr int32, value int32) (err error) {
	err = mem.check(int64(addr), WORD_SIZE)
	if err != nil {
		return
	}

	u := uint32(value)
	for n := int32(WORD_SIZE - 1); n >= 0; n-- {
		mem.Data[addr+n] = byte(u)
		u >>= 8
	}

	return
}

// StoreString writes each character of text as a half-word, followed
// by a zero half-word terminator.
func (mem *Memory) StoreString(addr int32, text string) (err error) {
	codes := EncodeString(text)
	err = mem.check(int64(addr), len(codes))
	if err != nil {
		return
	}

	copy(mem.Data[addr:], codes)
	return
}

// LoadString reads half-word characters starting at addr, until the
// zero half-word terminator.
func (mem *Memory) LoadString(addr int32) (text string, err error) {
	var runes []rune
	for {
		var ch uint16
		ch, err = mem.LoadHalfword(addr)
		if err != nil {
			return
		}
		if ch == 0 {
			break
		}
		runes = append(runes, rune(ch))
		addr += HWORD_SIZE
	}

	text = string(runes)
	return
}

// Write copies p into memory at addr.
func (mem *Memory) Write(addr int32, p []byte) (err error) {
	err = mem.check(int64(addr), len(p))
	if err != nil {
		return
	}

	copy(mem.Data[addr:], p)
	return
}

// Read copies len(p) bytes of memory at addr into p.
func (mem *Memory) Read(addr int32, p []byte) (err error) {
	err = mem.check(int64(addr), len(p))
	if err != nil {
		return
	}

	copy(p, mem.Data[addr:])
	return
}

// EncodeString returns the half-word string image of text, as written
// by StoreString. Characters above 0xffff are truncated.
func EncodeString(text string) (codes []byte) {
	for _, ch := range text {
		codes = append(codes, byte(ch>>8), byte(ch))
	}
	codes = append(codes, 0, 0)
	return
}
