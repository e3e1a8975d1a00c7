package cursor

import (
	"strings"
	"sync"
	"testing"

	"github.com/rxtech-lab/argo-advisor/internal/ledger"
	"github.com/rxtech-lab/argo-advisor/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type CursorTestSuite struct {
	suite.Suite
	ledger *ledger.Ledger
}

func TestCursorSuite(t *testing.T) {
	suite.Run(t, new(CursorTestSuite))
}

func (suite *CursorTestSuite) SetupTest() {
	data := "t3,ETH/BTC,bid,1,1\n" +
		"t1,ETH/BTC,bid,1,1\n" +
		"t2,ETH/BTC,ask,1,1\n" +
		"t1,DOGE/BTC,ask,1,1\n"

	l, err := ledger.LoadReader(strings.NewReader(data))
	suite.Require().NoError(err)
	suite.ledger = l
}

func (suite *CursorTestSuite) TestInitialize() {
	c := New(suite.ledger)
	suite.False(c.Initialized())

	suite.NoError(c.Initialize())
	suite.True(c.Initialized())

	pos, err := c.Position()
	suite.NoError(err)
	suite.Equal(Position{Timestamp: "t1", Index: 0}, pos)
}

func (suite *CursorTestSuite) TestInitializeTwiceFails() {
	c := New(suite.ledger)
	suite.NoError(c.Initialize())

	err := c.Initialize()
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidState))
}

func (suite *CursorTestSuite) TestUseBeforeInitializeFails() {
	c := New(suite.ledger)

	_, err := c.Position()
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidState))

	_, err = c.Advance()
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidState))
}

func (suite *CursorTestSuite) TestAdvanceCyclesThroughTimeline() {
	c := New(suite.ledger)
	suite.Require().NoError(c.Initialize())

	expected := []Position{
		{Timestamp: "t2", Index: 1},
		{Timestamp: "t3", Index: 2},
		{Timestamp: "t1", Index: 0},
		{Timestamp: "t2", Index: 1},
	}

	for _, want := range expected {
		got, err := c.Advance()
		suite.NoError(err)
		suite.Equal(want, got)
	}
}

func (suite *CursorTestSuite) TestEmptyTimeline() {
	empty, err := ledger.LoadReader(strings.NewReader(""))
	suite.Require().NoError(err)

	c := New(empty)
	err = c.Initialize()
	suite.True(errors.HasCode(err, errors.ErrCodeEmptyLedger))
	suite.False(c.Initialized())
}

func (suite *CursorTestSuite) TestConcurrentAdvance() {
	c := New(suite.ledger)
	suite.Require().NoError(c.Initialize())

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, _ = c.Advance()
		}()
	}

	wg.Wait()

	// 30 steps over a 3 timestamp timeline lands back at the start
	pos, err := c.Position()
	suite.NoError(err)
	suite.Equal(Position{Timestamp: "t1", Index: 0}, pos)
}
