package textmatch

import (
	"reflect"
	"sync"
	"testing"
)

func TestMatchTermsKeepsListOrder(t *testing.T) {
	m := New([]string{"strategy", "AI", "chart", "automat"})
	got := m.MatchTerms("My chart automation strategy")
	want := []string{"strategy", "chart", "automat"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMatchCaseInsensitiveDuplicates(t *testing.T) {
	m := New([]string{"Trading Bot", "trading bot", ""})
	got := m.Match("best TRADING BOT ever")
	if !reflect.DeepEqual(got, []int{0, 1}) {
		t.Fatalf("ожидали оба термина, получили %v", got)
	}
}

func TestMatchNoTerms(t *testing.T) {
	m := New(nil)
	if m.Contains("anything") {
		t.Fatal("пустой матчер не должен находить совпадения")
	}
	if New([]string{"x"}).Contains("") {
		t.Fatal("пустой текст не должен совпадать")
	}
}

func TestMatchConcurrent(t *testing.T) {
	m := New([]string{"giveaway", "get rich"})
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !m.Contains("huge giveaway today") {
				t.Error("ожидали совпадение")
			}
		}()
	}
	wg.Wait()
}
