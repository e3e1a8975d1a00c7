package ledger

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/rxtech-lab/argo-advisor/internal/types"
	"github.com/rxtech-lab/argo-advisor/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const sampleData = `2020/03/17 17:01:24.884492,ETH/BTC,bid,0.02187308,7.44564869
2020/03/17 17:01:24.884492,ETH/BTC,ask,0.02189000,3.46710000
2020/03/17 17:01:24.884492,DOGE/BTC,bid,0.00000040,2000
2020/03/17 17:01:30.099017,ETH/BTC,bid,0.02187000,1.00000000
2020/03/17 17:01:30.099017,BTC/USDT,ask,5352.00000000,0.01000000
2020/03/17 17:01:30.099017,ETH/BTC,ask,0.02190000,1.50000000
2020/03/17 17:01:35.000000,ETH/BTC,offer,0.02195000,1.00000000
`

type LedgerTestSuite struct {
	suite.Suite
	ledger *Ledger
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

func (suite *LedgerTestSuite) SetupTest() {
	l, err := LoadReader(strings.NewReader(sampleData))
	suite.Require().NoError(err)
	suite.ledger = l
}

func (suite *LedgerTestSuite) TestLoadKeepsFileOrder() {
	entries := suite.ledger.Entries()
	suite.Len(entries, 7)
	suite.Equal(7, suite.ledger.Len())
	suite.Equal(0, suite.ledger.Skipped())

	suite.Equal("ETH/BTC", entries[0].Product)
	suite.Equal(types.SideBid, entries[0].Side)
	suite.Equal("DOGE/BTC", entries[2].Product)
	suite.Equal(types.SideUnknown, entries[6].Side)
}

func (suite *LedgerTestSuite) TestProductsAreSortedAndDistinct() {
	suite.Equal([]string{"BTC/USDT", "DOGE/BTC", "ETH/BTC"}, suite.ledger.Products())
}

func (suite *LedgerTestSuite) TestTimestampsAreStrictlyAscending() {
	timestamps := suite.ledger.Timestamps()
	suite.Equal([]string{
		"2020/03/17 17:01:24.884492",
		"2020/03/17 17:01:30.099017",
		"2020/03/17 17:01:35.000000",
	}, timestamps)

	for i := 1; i < len(timestamps); i++ {
		suite.Less(timestamps[i-1], timestamps[i])
	}
}

func (suite *LedgerTestSuite) TestIndexesCoverEveryEntry() {
	products := suite.ledger.Products()
	timestamps := suite.ledger.Timestamps()

	for _, e := range suite.ledger.Entries() {
		suite.Contains(products, e.Product)
		suite.Contains(timestamps, e.Timestamp)
	}
}

func (suite *LedgerTestSuite) TestIndexesIgnoreRowOrder() {
	lines := strings.Split(strings.TrimSpace(sampleData), "\n")
	slices.Reverse(lines)

	reversed, err := LoadReader(strings.NewReader(strings.Join(lines, "\n")))
	suite.Require().NoError(err)

	suite.Equal(suite.ledger.Products(), reversed.Products())
	suite.Equal(suite.ledger.Timestamps(), reversed.Timestamps())
}

func (suite *LedgerTestSuite) TestGetOrdersAllWildcards() {
	bids := suite.ledger.GetOrders(types.SideBid, "", "")
	suite.Len(bids, 3)

	for _, e := range bids {
		suite.Equal(types.SideBid, e.Side)
	}

	asks := suite.ledger.GetOrders(types.SideAsk, "", "")
	suite.Len(asks, 3)
}

func (suite *LedgerTestSuite) TestGetOrdersByProductAndTimestamp() {
	orders := suite.ledger.GetOrders(types.SideBid, "ETH/BTC", "2020/03/17 17:01:24.884492")
	suite.Require().Len(orders, 1)
	suite.True(orders[0].Price.Equal(decimal.RequireFromString("0.02187308")))

	orders = suite.ledger.GetOrders(types.SideBid, "ETH/BTC", "")
	suite.Len(orders, 2)
	// insertion order preserved
	suite.Equal("2020/03/17 17:01:24.884492", orders[0].Timestamp)
	suite.Equal("2020/03/17 17:01:30.099017", orders[1].Timestamp)

	orders = suite.ledger.GetOrders(types.SideAsk, "", "2020/03/17 17:01:30.099017")
	suite.Len(orders, 2)
}

func (suite *LedgerTestSuite) TestGetOrdersReturnsExactSubset() {
	for _, side := range []types.Side{types.SideBid, types.SideAsk} {
		for _, product := range append(suite.ledger.Products(), "") {
			for _, ts := range append(suite.ledger.Timestamps(), "") {
				got := suite.ledger.GetOrders(side, product, ts)

				var want []types.Entry
				for _, e := range suite.ledger.Entries() {
					if e.Side == side && (product == "" || e.Product == product) && (ts == "" || e.Timestamp == ts) {
						want = append(want, e)
					}
				}

				suite.Equal(len(want), len(got))
				for i := range want {
					suite.Equal(want[i], got[i])
				}
			}
		}
	}
}

func (suite *LedgerTestSuite) TestGetOrdersNoMatchIsEmptyNotNil() {
	orders := suite.ledger.GetOrders(types.SideBid, "XRP/BTC", "")
	suite.NotNil(orders)
	suite.Empty(orders)
}

func (suite *LedgerTestSuite) TestUnknownSideIsNeverReturned() {
	for _, side := range []types.Side{types.SideBid, types.SideAsk} {
		for _, e := range suite.ledger.GetOrders(side, "", "2020/03/17 17:01:35.000000") {
			suite.NotEqual(types.SideUnknown, e.Side)
		}
	}
}

func (suite *LedgerTestSuite) TestOrdersImplementsSource() {
	orders, err := suite.ledger.Orders(types.NewFilter(types.SideAsk, "BTC/USDT", ""))
	suite.NoError(err)
	suite.Len(orders, 1)
}

func (suite *LedgerTestSuite) TestProductExists() {
	suite.True(suite.ledger.ProductExists("ETH/BTC"))
	suite.False(suite.ledger.ProductExists("eth/btc"))
	suite.False(suite.ledger.ProductExists(""))
}

func (suite *LedgerTestSuite) TestIsValidSide() {
	suite.True(suite.ledger.IsValidSide("bid"))
	suite.True(suite.ledger.IsValidSide("ask"))
	suite.False(suite.ledger.IsValidSide("offer"))
	suite.False(suite.ledger.IsValidSide("unknown"))
}

func (suite *LedgerTestSuite) TestEarliestTimestamp() {
	ts, err := suite.ledger.EarliestTimestamp()
	suite.NoError(err)
	suite.Equal("2020/03/17 17:01:24.884492", ts)
}

func (suite *LedgerTestSuite) TestNextTimestamp() {
	timestamps := suite.ledger.Timestamps()

	ts, idx, err := suite.ledger.NextTimestamp(timestamps[0])
	suite.NoError(err)
	suite.Equal(timestamps[1], ts)
	suite.Equal(1, idx)

	ts, idx, err = suite.ledger.NextTimestamp(timestamps[1])
	suite.NoError(err)
	suite.Equal(timestamps[2], ts)
	suite.Equal(2, idx)
}

func (suite *LedgerTestSuite) TestNextTimestampWrapsAtEnd() {
	timestamps := suite.ledger.Timestamps()

	ts, idx, err := suite.ledger.NextTimestamp(timestamps[len(timestamps)-1])
	suite.NoError(err)
	suite.Equal(timestamps[0], ts)
	suite.Equal(0, idx)

	// anything past the end wraps as well
	ts, idx, err = suite.ledger.NextTimestamp("2099/01/01 00:00:00")
	suite.NoError(err)
	suite.Equal(timestamps[0], ts)
	suite.Equal(0, idx)
}

func (suite *LedgerTestSuite) TestNextTimestampBetweenValues() {
	// not present in the timeline: next greater one is returned
	ts, idx, err := suite.ledger.NextTimestamp("2020/03/17 17:01:25")
	suite.NoError(err)
	suite.Equal("2020/03/17 17:01:30.099017", ts)
	suite.Equal(1, idx)

	ts, idx, err = suite.ledger.NextTimestamp("")
	suite.NoError(err)
	suite.Equal("2020/03/17 17:01:24.884492", ts)
	suite.Equal(0, idx)
}

func (suite *LedgerTestSuite) TestSingleTimestampWraps() {
	l := New([]types.Entry{types.NewEntry(decimal.NewFromInt(1), "t1", "ETH/BTC", types.SideBid)})

	ts, idx, err := l.NextTimestamp("t1")
	suite.NoError(err)
	suite.Equal("t1", ts)
	suite.Equal(0, idx)
}

func (suite *LedgerTestSuite) TestTimestampAt() {
	ts, err := suite.ledger.TimestampAt(2)
	suite.NoError(err)
	suite.Equal("2020/03/17 17:01:35.000000", ts)

	_, err = suite.ledger.TimestampAt(3)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	_, err = suite.ledger.TimestampAt(-1)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (suite *LedgerTestSuite) TestEmptyLedger() {
	l, err := LoadReader(strings.NewReader(""))
	suite.Require().NoError(err)
	suite.Equal(0, l.Len())

	_, err = l.EarliestTimestamp()
	suite.True(errors.HasCode(err, errors.ErrCodeEmptyLedger))

	_, _, err = l.NextTimestamp("t1")
	suite.True(errors.HasCode(err, errors.ErrCodeEmptyLedger))

	suite.Empty(l.GetOrders(types.SideBid, "", ""))
}

func (suite *LedgerTestSuite) TestMalformedRowsAreSkipped() {
	var buf strings.Builder
	for i := 0; i < 10; i++ {
		buf.WriteString("2020/03/17 17:01:24.884492,ETH/BTC,bid,0.0218,1\n")
	}
	buf.WriteString("2020/03/17 17:01:24.884492,ETH/BTC,bid,abc,1\n")
	buf.WriteString("2020/03/17 17:01:24.884492,ETH/BTC,ask,n/a,1\n")

	l, err := LoadReader(strings.NewReader(buf.String()))
	suite.Require().NoError(err)
	suite.Equal(10, l.Len())
	suite.Equal(2, l.Skipped())
}

func (suite *LedgerTestSuite) TestWrongFieldCountIsSkipped() {
	input := "t1,ETH/BTC,bid,1\n" +
		"t1,ETH/BTC,bid,1,2,3\n" +
		"t1,ETH/BTC,bid,1,2\n"

	l, err := LoadReader(strings.NewReader(input))
	suite.Require().NoError(err)
	suite.Equal(1, l.Len())
	suite.Equal(2, l.Skipped())
}

func (suite *LedgerTestSuite) TestStrayQuoteSkipsOnlyItsRow() {
	input := "t1,ETH/BTC,bid,1,1\n" +
		"t1,\"ETH/BTC,bid,2,1\n" +
		"t2,ETH/BTC,bid,3,1\n" +
		"t3,ETH/BTC,bid,4,1\n" +
		"t4,ETH/BTC,bid,5,1\n"

	l, err := LoadReader(strings.NewReader(input))
	suite.Require().NoError(err)
	suite.Equal(4, l.Len())
	suite.Equal(1, l.Skipped())
	suite.Equal([]string{"t1", "t2", "t3", "t4"}, l.Timestamps())
}

func (suite *LedgerTestSuite) TestReturnedSlicesAreCopies() {
	products := suite.ledger.Products()
	products[0] = "changed"
	suite.NotEqual("changed", suite.ledger.Products()[0])

	entries := suite.ledger.Entries()
	entries[0].Product = "changed"
	suite.Equal("ETH/BTC", suite.ledger.Entries()[0].Product)
}

func (suite *LedgerTestSuite) TestNewCopiesInput() {
	input := []types.Entry{types.NewEntry(decimal.NewFromInt(1), "t1", "ETH/BTC", types.SideBid)}
	l := New(input)
	input[0].Product = "changed"

	suite.Equal("ETH/BTC", l.Entries()[0].Product)
}

func (suite *LedgerTestSuite) TestLoadFromFile() {
	path := filepath.Join(suite.T().TempDir(), "orders.csv")
	suite.Require().NoError(os.WriteFile(path, []byte(sampleData), 0o600))

	var progress bytes.Buffer
	l, err := Load(path, WithProgress(&progress))
	suite.Require().NoError(err)
	suite.Equal(7, l.Len())
	suite.NotEqual(suite.ledger.LoadID(), l.LoadID())
}

func (suite *LedgerTestSuite) TestLoadMissingFile() {
	_, err := Load(filepath.Join(suite.T().TempDir(), "missing.csv"))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeSourceUnavailable))
}
