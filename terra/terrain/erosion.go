package terrain

import "math"

// Hydraulic droplet constants. Tuned against the studio's reference terrains;
// changing them invalidates cached results.
const (
	maxDropletSteps  = 30
	erosionRate      = 0.3
	depositionRate   = 0.3
	sedimentCapacity = 4.0
)

// Thermal erosion constants.
const (
	talusThreshold = 0.5
	thermalRate    = 0.5
)

// DefaultDroplets is the default hydraulic erosion iteration count.
const DefaultDroplets = 1000

// DefaultThermalPasses is the default thermal erosion iteration count.
const DefaultThermalPasses = 10

// ApplyErosion runs independent hydraulic droplet simulations on the map,
// each starting at a uniformly random cell drawn from the generator's
// placement stream. A non-positive iteration count falls back to
// DefaultDroplets. The map is mutated in place.
func (g *Generator) ApplyErosion(m Heightmap, width, height, iterations int) error {
	if err := m.Check(width, height); err != nil {
		return err
	}
	if iterations <= 0 {
		iterations = DefaultDroplets
	}
	for i := 0; i < iterations; i++ {
		x := g.rand.Intn(width)
		y := g.rand.Intn(height)
		simulateDroplet(m, width, height, x, y)
	}
	return nil
}

// simulateDroplet traces one droplet downhill for up to maxDropletSteps
// steps. On each step the droplet erodes the current cell towards its lowest
// neighbour, carries the material as sediment, sheds capacity overflow back
// onto the cell, and moves on. A droplet stuck in a local minimum deposits
// its sediment there and stops.
func simulateDroplet(m Heightmap, width, height, x, y int) {
	sediment := 0.0
	for step := 0; step < maxDropletSteps; step++ {
		cur := y*width + x

		lowestX, lowestY := x, y
		lowest := m[cur]
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				if h := m[ny*width+nx]; h < lowest {
					lowest, lowestX, lowestY = h, nx, ny
				}
			}
		}

		if lowestX == x && lowestY == y {
			m[cur] += sediment * depositionRate
			return
		}

		erode := math.Min(m[cur]-lowest, erosionRate)
		m[cur] -= erode
		sediment += erode
		if sediment > sedimentCapacity {
			m[cur] += (sediment - sedimentCapacity) * depositionRate
			sediment = sedimentCapacity
		}
		x, y = lowestX, lowestY
	}
}

// ApplyThermalErosion relaxes slopes steeper than the talus threshold. Each
// iteration scans the interior cells, records half of the steepest
// above-threshold drop to any 8-neighbour, and subtracts the recorded amount
// after the scan. Sheared material is not credited to the receiving
// neighbour, so the pass flattens peaks rather than conserving volume. A
// non-positive iteration count falls back to DefaultThermalPasses. The map is
// mutated in place.
func (g *Generator) ApplyThermalErosion(m Heightmap, width, height, iterations int) error {
	if err := m.Check(width, height); err != nil {
		return err
	}
	if iterations <= 0 {
		iterations = DefaultThermalPasses
	}
	diff := make([]float64, len(m))
	for it := 0; it < iterations; it++ {
		clear(diff)
		for y := 1; y < height-1; y++ {
			for x := 1; x < width-1; x++ {
				cur := y*width + x
				var steepest float64
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						d := m[cur] - m[(y+dy)*width+(x+dx)]
						if d > talusThreshold && d > steepest {
							steepest = d
						}
					}
				}
				if steepest > 0 {
					diff[cur] = steepest * thermalRate
				}
			}
		}
		for i, d := range diff {
			m[i] -= d
		}
	}
	return nil
}
