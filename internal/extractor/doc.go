// Package extractor implements the detect-crop-archive pipeline.
//
// An Extractor is built for one image and one archive directory. It loads
// the image, fits it within the maximum dimension, runs a cascade detector
// over the result, crops every detected region into its own buffer, and
// writes the crops and the annotated full frame to the archive:
//
//	e, err := extractor.New(extractor.Options{
//	    ImagePath:  "./img/visage.jpg",
//	    ArchiveDir: "./archive/",
//	    Variant:    detection.VariantFaceFrontal,
//	    Detector:   det,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := e.Run()
//
// The steps of Run are also exported (FindItems, ExtractItems, Items,
// AddLabel, DrawItems, ArchiveItems, ArchiveWithItems) for callers that need
// only part of the pipeline.
//
// New checks its two preconditions, a readable image file and an existing
// archive directory, before anything is decoded or written. An Extractor is
// not safe for concurrent use.
package extractor
