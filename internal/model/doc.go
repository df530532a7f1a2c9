// Package model defines the format independent representation of a
// sampled instrument.
//
// Every source format decoder produces a MultisampleSource and every
// output writer consumes one, so the two sides never need to know about
// each other. A source holds the instrument metadata (name, creator,
// category, keywords, description) and a list of velocity layers. Each
// layer owns the sample zones that sound for its velocity range, described
// by SampleMetadata: key and velocity ranges with optional crossfades,
// play ranges, tuning, gain, loops and an amplitude envelope.
//
// # Unset values
//
// The source formats store their fields with varying completeness, so the
// model distinguishes "not set" from real values: integer ranges and
// positions use -1, envelope stages use -1, and KeyTracking defaults to
// normal tracking (1.0). Writers substitute their own defaults for unset
// fields. Use the constructors to get these defaults right:
//
//	sample := model.NewSampleMetadata("Piano-C4.wav")
//	sample.KeyRoot = 60
//	layer := &model.VelocityLayer{Name: "Soft", Samples: []*model.SampleMetadata{sample}}
//
//	source := model.NewMultisampleSource("Grand Piano", "/in/Grand Piano.nki", parts)
//	source.Layers = append(source.Layers, layer)
package model
