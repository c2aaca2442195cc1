package alloc

import (
	"testing"

	"github.com/8bitcraft/gleeby/pkg/cpu"
)

func TestArenaBumpMonotonicity(t *testing.T) {
	a := NewArena("test", 0, 4)
	addr, err := a.Alloc(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr != 0 {
		t.Fatalf("addr = %d, want 0", addr)
	}
	if a.Next != 3 {
		t.Fatalf("Next = %d, want 3", a.Next)
	}

	if _, err := a.Alloc(2); err == nil {
		t.Fatal("expected out-of-memory error")
	}
	if a.Next != 3 {
		t.Fatalf("failed alloc must not advance Next, got %d", a.Next)
	}

	addr, err = a.Alloc(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr != 3 {
		t.Fatalf("addr = %d, want 3", addr)
	}
}

func TestAllocRegScanOrder(t *testing.T) {
	al := New()
	h, err := al.AllocReg()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Reg() != cpu.RegA {
		t.Fatalf("first AllocReg = %v, want RegA", h.Reg())
	}
	h2, err := al.AllocReg()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h2.Reg() != cpu.RegB {
		t.Fatalf("second AllocReg = %v, want RegB", h2.Reg())
	}
}

func TestAllocRegExhaustion(t *testing.T) {
	al := New()
	for i := 0; i < 7; i++ {
		if _, err := al.AllocReg(); err != nil {
			t.Fatalf("unexpected error on alloc %d: %v", i, err)
		}
	}
	if _, err := al.AllocReg(); err == nil {
		t.Fatal("expected out-of-registers error")
	}
}

func TestAllocRegPairMutualExclusion(t *testing.T) {
	al := New()
	// Claim RegB alone; BC pair should now be unavailable.
	bh, err := al.AllocReg()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bh.Reg() != cpu.RegA {
		t.Fatalf("got %v, want RegA", bh.Reg())
	}
	al.ClaimReg(SelectReg(cpu.RegB), al.NewId())

	if al.RegFree(SelectPair(cpu.PairBC)) {
		t.Fatal("BC should not be free once B is claimed")
	}

	ph, err := al.AllocRegPair()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ph.Pair() != cpu.PairDE {
		t.Fatalf("AllocRegPair = %v, want PairDE (BC blocked, DE next)", ph.Pair())
	}
}

func TestRegHandleRefCounting(t *testing.T) {
	al := New()
	h, err := al.AllocReg()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clone := h.Clone()

	h.Release()
	if al.RegFree(SelectReg(cpu.RegA)) {
		t.Fatal("register freed early: clone still holds a reference")
	}

	clone.Release()
	if !al.RegFree(SelectReg(cpu.RegA)) {
		t.Fatal("register should be free after both handles released")
	}
}

func TestRegHandleNoRc(t *testing.T) {
	al := New()
	h, err := al.AllocReg()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clone := h.Clone()
	raw := clone.NoRc()

	h.Release()
	raw.Release()
	if !al.RegFree(SelectReg(cpu.RegA)) {
		t.Fatal("register should be free after raw handle released")
	}
}

func TestRegPairHandleRefCounting(t *testing.T) {
	al := New()
	ph, err := al.AllocRegPair()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ph.Pair() != cpu.PairBC {
		t.Fatalf("AllocRegPair = %v, want PairBC", ph.Pair())
	}
	clone := ph.Clone()
	ph.Release()
	if al.RegFree(SelectReg(cpu.RegB)) || al.RegFree(SelectReg(cpu.RegC)) {
		t.Fatal("pair freed early: clone still holds a reference")
	}
	clone.Release()
	if !al.RegFree(SelectPair(cpu.PairBC)) {
		t.Fatal("pair should be free after both handles released")
	}
}

func TestAllocConstAndVarIndependentArenas(t *testing.T) {
	al := New()
	constAddr, err := al.AllocConst(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	varAddr, err := al.AllocVar(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if constAddr != 0 || varAddr != 0 {
		t.Fatalf("expected independent arenas both starting at 0, got const=%d var=%d", constAddr, varAddr)
	}
}

func TestRegKindFromLen(t *testing.T) {
	tests := []struct {
		n       uint16
		want    RegKind
		wantErr bool
	}{
		{1, KindGpRegister, false},
		{2, KindRegisterPair, false},
		{3, 0, true},
		{0, 0, true},
	}
	for _, tt := range tests {
		got, err := RegKindFromLen(tt.n)
		if tt.wantErr {
			if err == nil {
				t.Errorf("RegKindFromLen(%d): expected error", tt.n)
			}
			continue
		}
		if err != nil {
			t.Errorf("RegKindFromLen(%d): unexpected error: %v", tt.n, err)
		}
		if got != tt.want {
			t.Errorf("RegKindFromLen(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}
