package gov_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stake-plus/dao-governance/src/gov"
)

func TestConcurrentVotesKeepTallyExact(t *testing.T) {
	f := newFixture(t)
	f.init(gov.OrgStandard, alice)
	f.credit(alice, 1)
	id := f.mustCreate(alice, gov.Draft{Type: gov.DefaultTypeName, Title: "t"})

	const voters = 64
	var want uint64
	for i := 1; i <= voters; i++ {
		f.credit(fmt.Sprintf("voter-%d", i), uint64(i))
		want += uint64(i)
	}

	var wg sync.WaitGroup
	for i := 1; i <= voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := f.eng.Vote(fmt.Sprintf("voter-%d", i), id, gov.ChoiceApprove); err != nil {
				t.Errorf("vote %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	p := f.proposal(id)
	checkTally(t, p, want, 0, 0)
	if len(p.Voters) != voters {
		t.Fatalf("expected %d recorded voters, got %d", voters, len(p.Voters))
	}
}

func TestConcurrentCreatesStayDense(t *testing.T) {
	f := newFixture(t)
	f.init(gov.OrgStandard, alice)
	f.credit(alice, 1)

	const n = 32
	ids := make(chan uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := f.eng.CreateDiscussion(alice, gov.Draft{Type: gov.DefaultTypeName, Title: "t"})
			if err != nil {
				t.Errorf("create: %v", err)
				return
			}
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint64]bool, n)
	for id := range ids {
		if seen[id] {
			t.Fatalf("id %d issued twice", id)
		}
		seen[id] = true
	}
	for want := uint64(0); want < n; want++ {
		if !seen[want] {
			t.Fatalf("id %d never issued", want)
		}
	}
}
