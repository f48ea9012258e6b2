package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-motion/common"
	"github.com/nvr-ai/go-motion/config"
	"github.com/nvr-ai/go-motion/consolidate"
	"github.com/nvr-ai/go-motion/pipeline"
)

const (
	// deviceID is the default video capture device.
	deviceID = 0
	// trackerMatchDistance is the centroid gate for the demo tracker.
	trackerMatchDistance = 75.0
)

func main() {
	var (
		videoPath  string
		configPath string
		maxFrames  int
	)
	flag.StringVar(&videoPath, "video", "", "Path to a video file; empty uses the capture device")
	flag.StringVar(&configPath, "config", "", "Path to a JSON tuning file")
	flag.IntVar(&maxFrames, "max-frames", 0, "Stop after this many frames (0 = unlimited)")
	flag.Parse()

	cfg := config.LoadOrDefault(configPath)

	pipe, err := pipeline.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pipe.Close()

	var capture *gocv.VideoCapture
	if videoPath != "" {
		capture, err = gocv.VideoCaptureFile(videoPath)
	} else {
		capture, err = gocv.OpenVideoCapture(deviceID)
	}
	if err != nil {
		log.Fatal(err)
	}
	defer capture.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	// The pipeline expects IDs from an external tracker; the demo stands one
	// in with naive nearest-centroid matching.
	tracker := newCentroidTracker(trackerMatchDistance)

	frameIndex := 0
	for {
		if ok := capture.Read(&frame); !ok {
			break
		}
		frameIndex++

		boxes := pipe.Process(frame)
		objects := tracker.Assign(boxes)
		regions := pipe.Consolidate(objects)

		if len(regions) > 0 {
			log.Printf("frame %d: %d motion boxes, %d regions", frameIndex, len(boxes), len(regions))
			for _, r := range regions {
				log.Printf("  %s crop=%s", r.String(), r.Expanded)
			}
		}

		if maxFrames > 0 && frameIndex >= maxFrames {
			break
		}
	}

	stats := pipe.Stats()
	fmt.Printf("processed %d frames, %d motion boxes, %d live regions\n",
		stats.FramesProcessed, stats.BoxesEmitted, stats.RegionsLive)
}

// centroidTracker assigns persistent IDs to motion boxes by nearest-centroid
// matching against the previous frame. It is a stand-in for a real tracker
// and lives outside the core pipeline.
type centroidTracker struct {
	maxDistance float64
	nextID      int
	previous    []consolidate.TrackedObject
}

func newCentroidTracker(maxDistance float64) *centroidTracker {
	return &centroidTracker{maxDistance: maxDistance}
}

// Assign matches each box to the closest unclaimed previous object within
// the gate, minting new IDs for the rest.
func (t *centroidTracker) Assign(boxes []common.Rect) []consolidate.TrackedObject {
	claimed := make([]bool, len(t.previous))
	current := make([]consolidate.TrackedObject, 0, len(boxes))

	for _, box := range boxes {
		bestIdx := -1
		bestDist := t.maxDistance
		for i, prev := range t.previous {
			if claimed[i] {
				continue
			}
			d := centroidDistance(box, prev.Bounds)
			if d < bestDist {
				bestDist = d
				bestIdx = i
			}
		}

		var id int
		if bestIdx >= 0 {
			claimed[bestIdx] = true
			id = t.previous[bestIdx].ID
		} else {
			id = t.nextID
			t.nextID++
		}
		current = append(current, consolidate.TrackedObject{ID: id, Bounds: box})
	}

	t.previous = current
	return current
}

func centroidDistance(a, b common.Rect) float64 {
	ax := float64(a.X1+a.X2) / 2
	ay := float64(a.Y1+a.Y2) / 2
	bx := float64(b.X1+b.X2) / 2
	by := float64(b.Y1+b.Y2) / 2
	dx := ax - bx
	dy := ay - by
	return math.Sqrt(dx*dx + dy*dy)
}
