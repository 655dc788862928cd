package retypeset

import (
	"io"
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/retypeset/cluster"
	"github.com/tsawler/retypeset/font"
	"github.com/tsawler/retypeset/model"
)

// Layout defaults applied to every region.
const (
	DefaultMargin             = 2.0
	DefaultLineSpacingPercent = -20.0
)

// PageOptions holds configuration for a Page.
type PageOptions struct {
	// Detection filtering and clustering
	minScore     float64
	marginFactor float64

	// Region ordering; aggregation order when readingOrder is false
	readingOrder bool
	direction    cluster.ReadingDirection

	// Layout of each region
	family             string
	startSize          int // 0 starts at the region's inner height
	minSize            int // 0 uses the engine floor
	margin             float64
	lineSpacingPercent float64

	// Processing
	workers int
	logger  logrus.FieldLogger
}

// defaultOptions returns the default page options.
func defaultOptions() PageOptions {
	return PageOptions{
		minScore:           model.DefaultMinScore,
		marginFactor:       cluster.DefaultMarginFactor,
		readingOrder:       false,
		direction:          cluster.LeftToRight,
		family:             font.FamilyGoRegular,
		startSize:          0,
		minSize:            0,
		margin:             DefaultMargin,
		lineSpacingPercent: DefaultLineSpacingPercent,
		workers:            runtime.NumCPU(),
		logger:             nil, // silent
	}
}

// clone creates a copy of PageOptions.
func (o PageOptions) clone() PageOptions {
	newOpts := o
	return newOpts
}

// log returns the configured logger or a discarding one.
func (o PageOptions) log() logrus.FieldLogger {
	if o.logger != nil {
		return o.logger
	}
	return discardLogger
}

var discardLogger = func() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()
