package audio

// Options tunes Process. Nil fields and a zero Bars select the defaults; set
// values are clamped, so an explicit zero threshold becomes MinThreshold.
type Options struct {
	Threshold     *float64
	MinDurationMs *int
	Bars          int
}

func (o Options) threshold() float64 {
	if o.Threshold == nil {
		return DefaultThreshold
	}
	return ClampThreshold(*o.Threshold)
}

func (o Options) minDuration() int {
	if o.MinDurationMs == nil {
		return DefaultMinDurationMs
	}
	return ClampMinDuration(*o.MinDurationMs)
}

// Result is the processed clip ready to be written out.
type Result struct {
	WAV        []byte
	DidTrim    bool
	DurationMs int
	LeadingMs  int
	TrailingMs int
	Bars       []float64
}

// Process decodes data, trims silence with clamped options, re-encodes to WAV
// and summarizes the kept audio.
func Process(data []byte, opts Options) (*Result, error) {
	buf, err := Decode(data)
	if err != nil {
		return nil, err
	}
	trim := TrimSilence(buf, opts.threshold(), opts.minDuration())
	return &Result{
		WAV:        EncodeWAV(trim.Buffer),
		DidTrim:    trim.DidTrim,
		DurationMs: trim.Buffer.DurationMs(),
		LeadingMs:  trim.LeadingMs,
		TrailingMs: trim.TrailingMs,
		Bars:       Waveform(trim.Buffer, opts.Bars),
	}, nil
}

// Analyze decodes data and returns its waveform and duration without trimming.
func Analyze(data []byte, bars int) ([]float64, int, error) {
	buf, err := Decode(data)
	if err != nil {
		return nil, 0, err
	}
	return Waveform(buf, bars), buf.DurationMs(), nil
}
