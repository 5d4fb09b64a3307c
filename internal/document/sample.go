package document

// Sample returns a small 32-bit image with three segments, a handful of
// functions with basic blocks, two import thunks, strings and a bss counter.
func Sample() *Memory {
	return NewMemory(SampleContents())
}

func SampleContents() Contents {
	const (
		textStart  Address = 0x401000
		textEnd    Address = 0x401200
		rdataStart Address = 0x402000
		rdataEnd   Address = 0x402100
		bssStart   Address = 0x403000
		bssEnd     Address = 0x403080
	)

	code := []Item{
		// _start
		ins(0x401000, 2, "xor ebp, ebp"),
		ins(0x401002, 3, "mov eax, [esp]"),
		ins(0x401005, 5, "call main"),
		ins(0x40100a, 2, "mov ebx, eax"),
		ins(0x40100c, 5, "call exit"),
		ins(0x401011, 1, "hlt"),
		// main
		ins(0x401040, 1, "push ebp"),
		ins(0x401041, 2, "mov ebp, esp"),
		ins(0x401043, 3, "sub esp, 0x10"),
		ins(0x401046, 4, "cmp dword [ebp+8], 1"),
		ins(0x40104a, 2, "jle 0x0040105e"),
		ins(0x40104c, 5, "push str_banner"),
		ins(0x401051, 5, "call helper"),
		ins(0x401056, 3, "add esp, 4"),
		ins(0x401059, 5, "jmp 0x00401068"),
		ins(0x40105e, 5, "push str_noargs"),
		ins(0x401063, 5, "call puts"),
		ins(0x401068, 2, "xor eax, eax"),
		ins(0x40106a, 1, "leave"),
		ins(0x40106b, 1, "ret"),
		// helper
		ins(0x401100, 1, "push ebp"),
		ins(0x401101, 2, "mov ebp, esp"),
		ins(0x401103, 3, "push dword [ebp+8]"),
		ins(0x401106, 5, "call puts"),
		ins(0x40110b, 3, "add esp, 4"),
		ins(0x40110e, 5, "mov eax, [counter]"),
		ins(0x401113, 1, "inc eax"),
		ins(0x401114, 5, "mov [counter], eax"),
		ins(0x401119, 1, "pop ebp"),
		ins(0x40111a, 1, "ret"),
		// import thunks
		ins(0x401180, 6, "jmp dword [__imp_puts]"),
		ins(0x401190, 6, "jmp dword [__imp_exit]"),
	}

	banner := "disasm-shell demo\x00"
	noargs := "no arguments\x00"
	rdataItems := []Item{
		{Address: 0x402000, Size: uint32(len(banner)), Kind: ItemData, Text: `db "disasm-shell demo", 0`},
		{Address: 0x402020, Size: uint32(len(noargs)), Kind: ItemData, Text: `db "no arguments", 0`},
		{Address: 0x402080, Size: 4, Kind: ItemData, Text: "dd puts"},
		{Address: 0x402084, Size: 4, Kind: ItemData, Text: "dd exit"},
	}
	bssItems := []Item{
		{Address: 0x403000, Size: 4, Kind: ItemData, Text: "dd ?"},
	}

	textData := make([]byte, textEnd-textStart)
	for i := range textData {
		textData[i] = byte((uint64(textStart)+uint64(i))*31 + 7)
	}
	rdataData := make([]byte, rdataEnd-rdataStart)
	copy(rdataData[0x00:], banner)
	copy(rdataData[0x20:], noargs)
	copy(rdataData[0x80:], []byte{0x80, 0x11, 0x40, 0x00, 0x90, 0x11, 0x40, 0x00})

	items := fillGaps(code, textStart, textEnd)
	items = append(items, fillGaps(rdataItems, rdataStart, rdataEnd)...)
	items = append(items, fillGaps(bssItems, bssStart, bssEnd)...)

	return Contents{
		Segments: []Segment{
			{Name: ".text", Start: textStart, End: textEnd, Kind: SegmentCode, Data: textData},
			{Name: ".rdata", Start: rdataStart, End: rdataEnd, Kind: SegmentData, Data: rdataData},
			{Name: ".bss", Start: bssStart, End: bssEnd, Kind: SegmentBSS},
		},
		Symbols: []Symbol{
			{Name: "_start", Address: 0x401000, Kind: SymbolExport},
			{Name: "main", Address: 0x401040, Kind: SymbolFunction},
			{Name: "helper", Address: 0x401100, Kind: SymbolFunction},
			{Name: "puts", Address: 0x401180, Kind: SymbolImport},
			{Name: "exit", Address: 0x401190, Kind: SymbolImport},
			{Name: "str_banner", Address: 0x402000, Kind: SymbolString},
			{Name: "str_noargs", Address: 0x402020, Kind: SymbolString},
			{Name: "__imp_puts", Address: 0x402080, Kind: SymbolLabel},
			{Name: "__imp_exit", Address: 0x402084, Kind: SymbolLabel},
			{Name: "counter", Address: 0x403000, Kind: SymbolLabel},
		},
		XRefs: []XRef{
			{From: 0x401005, To: 0x401040, Kind: XRefCall},
			{From: 0x40100c, To: 0x401190, Kind: XRefCall},
			{From: 0x40104a, To: 0x40105e, Kind: XRefJump},
			{From: 0x40104c, To: 0x402000, Kind: XRefData},
			{From: 0x401051, To: 0x401100, Kind: XRefCall},
			{From: 0x401059, To: 0x401068, Kind: XRefJump},
			{From: 0x40105e, To: 0x402020, Kind: XRefData},
			{From: 0x401063, To: 0x401180, Kind: XRefCall},
			{From: 0x401106, To: 0x401180, Kind: XRefCall},
			{From: 0x40110e, To: 0x403000, Kind: XRefData},
			{From: 0x401114, To: 0x403000, Kind: XRefData},
			{From: 0x401180, To: 0x402080, Kind: XRefData},
			{From: 0x401190, To: 0x402084, Kind: XRefData},
		},
		Items: items,
		Blocks: []Block{
			{Function: 0x401000, Start: 0x401000, End: 0x401012},
			{Function: 0x401040, Start: 0x401040, End: 0x40104c, Succs: []Address{0x40104c, 0x40105e}},
			{Function: 0x401040, Start: 0x40104c, End: 0x40105e, Succs: []Address{0x401068}},
			{Function: 0x401040, Start: 0x40105e, End: 0x401068, Succs: []Address{0x401068}},
			{Function: 0x401040, Start: 0x401068, End: 0x40106c},
			{Function: 0x401100, Start: 0x401100, End: 0x40111b},
			{Function: 0x401180, Start: 0x401180, End: 0x401186},
			{Function: 0x401190, Start: 0x401190, End: 0x401196},
		},
	}
}

func ins(a Address, size uint32, text string) Item {
	return Item{Address: a, Size: size, Kind: ItemInstruction, Text: text}
}

// fillGaps pads the holes between sorted items with alignment data so that
// every mapped byte is covered by exactly one item.
func fillGaps(items []Item, start, end Address) []Item {
	out := make([]Item, 0, len(items)*2)
	next := start
	for _, it := range items {
		if it.Address > next {
			out = append(out, Item{Address: next, Size: uint32(it.Address - next), Kind: ItemData, Text: "align"})
		}
		out = append(out, it)
		next = it.Address + Address(it.Size)
	}
	if next < end {
		out = append(out, Item{Address: next, Size: uint32(end - next), Kind: ItemData, Text: "align"})
	}
	return out
}
