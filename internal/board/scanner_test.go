package board

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Th0mmi3/auto-comment/internal/entity"
	"github.com/Th0mmi3/auto-comment/internal/metrics"
)

const template = "https://site/entity/{id}"

func newScanner(d *fakeDriver) *Scanner {
	return &Scanner{
		Driver:      d,
		BoardURL:    "https://site/board",
		URLTemplate: template,
	}
}

func TestScan_ReadsCardsInOrder(t *testing.T) {
	d := boardWith(
		card("7", "FooCoin (supply 1B)\nmarket cap: 5k\nreplies: 0"),
		card("", "no id here"),
		card("8", ""),
		card("9", "  BarCoin  \nmarket cap: 1k"),
	)

	coins := newScanner(d).Scan(context.Background())

	require.Len(t, coins, 2)
	assert.Equal(t, entity.Coin{ID: "7", DisplayName: "FooCoin (supply 1B)", DetailURL: "https://site/entity/7"}, coins[0])
	assert.Equal(t, entity.Coin{ID: "9", DisplayName: "BarCoin", DetailURL: "https://site/entity/9"}, coins[1])
	assert.Equal(t, []string{"https://site/board"}, d.navigated)
}

func TestScan_DuplicateIDKeepsFirstPosition(t *testing.T) {
	d := boardWith(
		card("a", "Alpha"),
		card("b", "Beta"),
		card("a", "Alpha v2"),
	)

	coins := newScanner(d).Scan(context.Background())

	require.Len(t, coins, 2)
	assert.Equal(t, "a", coins[0].ID)
	assert.Equal(t, "Alpha v2", coins[0].DisplayName)
	assert.Equal(t, "b", coins[1].ID)
}

func TestScan_FailuresYieldEmptyBoard(t *testing.T) {
	boom := errors.New("boom")
	cases := map[string]func(d *fakeDriver){
		"navigation error": func(d *fakeDriver) { d.navErr = boom },
		"list timeout":     func(d *fakeDriver) { d.waitErr[coinListXPath] = context.DeadlineExceeded },
		"children error":   func(d *fakeDriver) { d.elements[coinListXPath].childErr = boom },
		"stale card": func(d *fakeDriver) {
			d.elements[coinListXPath].children[0].(*fakeElement).attrErr = boom
		},
		"driver panic": func(d *fakeDriver) { d.panicOn = coinListXPath },
	}
	for name, breakIt := range cases {
		t.Run(name, func(t *testing.T) {
			d := boardWith(card("1", "One"))
			breakIt(d)

			var coins []entity.Coin
			require.NotPanics(t, func() {
				coins = newScanner(d).Scan(context.Background())
			})
			assert.Empty(t, coins)
		})
	}
}

func TestScan_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	ok := newScanner(boardWith(card("1", "One")))
	ok.Metrics = m
	ok.Scan(context.Background())

	broken := boardWith()
	broken.navErr = errors.New("offline")
	bad := newScanner(broken)
	bad.Metrics = m
	bad.Scan(context.Background())

	families, err := reg.Gather()
	require.NoError(t, err)
	counts := map[string]float64{}
	for _, f := range families {
		if f.GetName() != "autocomment_board_scans_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			counts[metric.GetLabel()[0].GetValue()] = metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, map[string]float64{"ok": 1, "failed": 1}, counts)
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "FooCoin", FirstLine("FooCoin\nsecond"))
	assert.Equal(t, "Solo", FirstLine("Solo"))
	assert.Equal(t, "", FirstLine("\nafter blank"))
}
