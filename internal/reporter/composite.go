package reporter

// CompositeReporter fans out events to multiple reporters.
type CompositeReporter struct {
	reporters []Reporter
}

// NewCompositeReporter creates a composite reporter.
func NewCompositeReporter(reporters ...Reporter) *CompositeReporter {
	return &CompositeReporter{reporters: reporters}
}

func (c *CompositeReporter) FileStarted(path string) {
	for _, r := range c.reporters {
		r.FileStarted(path)
	}
}

func (c *CompositeReporter) StageProgress(update StageProgress) {
	for _, r := range c.reporters {
		r.StageProgress(update)
	}
}

func (c *CompositeReporter) FrameInspected(count, total int) {
	for _, r := range c.reporters {
		r.FrameInspected(count, total)
	}
}

func (c *CompositeReporter) ChecksumStarted(totalBytes int64) {
	for _, r := range c.reporters {
		r.ChecksumStarted(totalBytes)
	}
}

func (c *CompositeReporter) ChecksumProgress(doneBytes int64) {
	for _, r := range c.reporters {
		r.ChecksumProgress(doneBytes)
	}
}

func (c *CompositeReporter) ChecksumComplete() {
	for _, r := range c.reporters {
		r.ChecksumComplete()
	}
}

func (c *CompositeReporter) Warning(message string) {
	for _, r := range c.reporters {
		r.Warning(message)
	}
}

func (c *CompositeReporter) Error(err ReporterError) {
	for _, r := range c.reporters {
		r.Error(err)
	}
}

func (c *CompositeReporter) BatchStarted(info BatchStartInfo) {
	for _, r := range c.reporters {
		r.BatchStarted(info)
	}
}

func (c *CompositeReporter) FileProgress(context FileProgressContext) {
	for _, r := range c.reporters {
		r.FileProgress(context)
	}
}

func (c *CompositeReporter) BatchComplete(summary BatchSummary) {
	for _, r := range c.reporters {
		r.BatchComplete(summary)
	}
}
