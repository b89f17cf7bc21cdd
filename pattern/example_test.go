package pattern_test

import (
	"fmt"

	"github.com/cwbudde/algo-zome/audio"
	"github.com/cwbudde/algo-zome/pattern"
)

func ExampleSoundReactive_Render() {
	p, _ := pattern.NewSoundReactive(4, pattern.Compressed)

	snap := audio.Snapshot{Spectrum: []float64{0, 0, 0, 0}, EMA: 10}
	px := p.Render(nil, 0, snap)

	fmt.Println(px[0], len(px))
	// Output:
	// {0 0 0 255} 4
}
