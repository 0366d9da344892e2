// Profiling:
// go build ./profile/pool
// go tool pprof -http=":8000" -nodefraction=0.001 ./pool mem.pprof

package main

import (
	"github.com/pkg/profile"

	"github.com/pavanmanishd/memkit/hashmap"
	"github.com/pavanmanishd/memkit/pool"
	"github.com/pavanmanishd/memkit/vector"
)

type particle struct {
	X, Y, Z    float32
	VX, VY, VZ float32
	Life       int32
}

func main() {
	rounds := 50
	iters := 1000
	particles := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, iters, particles)
	p.Stop()
}

func run(rounds, iters, numParticles int) {
	for range rounds {
		pl, err := pool.New[particle](numParticles)
		if err != nil {
			panic(err)
		}
		live := vector.New[*particle](vector.WithCapacity(numParticles))
		byID := hashmap.New[int, *particle](hashmap.Integer[int](), hashmap.WithInitialCapacity(numParticles*2))

		for it := range iters {
			for !pl.Full() {
				obj, _ := pl.Construct(particle{Life: 8})
				live.PushBack(obj)
				byID.Insert(live.Len()+it*numParticles, obj)
			}
			for i := live.Len() - 1; i >= 0; i-- {
				obj, _ := live.At(i)
				obj.Life--
				obj.X += obj.VX
				if obj.Life > 0 {
					continue
				}
				last, _ := live.PopBack()
				if i < live.Len() {
					_ = live.Set(i, last)
				}
				_ = pl.Destroy(obj)
			}
			byID.Clear()
		}
		pl.Close()
	}
}
