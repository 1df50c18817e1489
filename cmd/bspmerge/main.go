package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/cobra"

	"github.com/LossyDragon/bspguy/internal/bsp"
	"github.com/LossyDragon/bspguy/internal/merge"
)

var (
	gapX, gapY, gapZ float32
	outPath          string
	quiet            bool
)

func loadMap(path string) (*bsp.Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return bsp.Load(f, path)
}

var mergeCmd = &cobra.Command{
	Use:   "merge <map1.bsp> <map2.bsp> [more.bsp...]",
	Short: "Merge two or more GoldSrc BSP maps into one",
	Long: `merge packs the given maps into a non-overlapping grid, finds a
separating plane between neighbours, and splices every lump of each
map into the result.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		maps := make([]*bsp.Container, 0, len(args))
		for _, path := range args {
			m, err := loadMap(path)
			if err != nil {
				return fmt.Errorf("loading %s: %w", path, err)
			}
			maps = append(maps, m)
		}

		var progress merge.ProgressFunc
		if !quiet {
			progress = func(stage string, completed, total int) {
				fmt.Fprintf(os.Stderr, "\r%-16s %3d/%-3d", stage, completed, total)
				if completed >= total {
					fmt.Fprintln(os.Stderr)
				}
			}
		}

		result, diagnostics, err := merge.MergeAll(maps, mgl32.Vec3{gapX, gapY, gapZ}, progress, nil)
		for _, d := range diagnostics {
			log.Println("warning:", d)
		}
		if err != nil {
			return err
		}

		out, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer out.Close()
		if err := result.Save(out); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info <map.bsp>",
	Short: "Print a BSP file's lump sizes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadMap(args[0])
		if err != nil {
			return err
		}
		fmt.Println("Filename:", args[0])
		fmt.Println(" Version:", m.Version)
		fmt.Println("   Lumps:")
		for i := 0; i < bsp.HeaderLumps; i++ {
			fmt.Printf("     %-14s %8.1f kB\n", bsp.LumpName(i), float64(len(m.Lump(i)))/1024.0)
		}
		return nil
	},
}

var locateCmd = &cobra.Command{
	Use:   "locate <map.bsp> <x> <y> <z>",
	Short: "Report which BSP leaf contains a point",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadMap(args[0])
		if err != nil {
			return err
		}
		var x, y, z float64
		if _, err := fmt.Sscanf(args[1], "%f", &x); err != nil {
			return fmt.Errorf("x: %w", err)
		}
		if _, err := fmt.Sscanf(args[2], "%f", &y); err != nil {
			return fmt.Errorf("y: %w", err)
		}
		if _, err := fmt.Sscanf(args[3], "%f", &z); err != nil {
			return fmt.Errorf("z: %w", err)
		}

		models, err := m.ReadModels()
		if err != nil {
			return err
		}
		nodes, err := m.ReadNodes()
		if err != nil {
			return err
		}
		planes, err := m.ReadPlanes()
		if err != nil {
			return err
		}
		leaves, err := m.ReadLeaves()
		if err != nil {
			return err
		}

		pos := mgl32.Vec3{float32(x), float32(y), float32(z)}
		leaf := bsp.LocateLeaf(nodes, planes, models[0].HeadNodes[0], pos)
		fmt.Printf("leaf %d, solid=%v\n", leaf, bsp.IsSolid(leaves, leaf))
		return nil
	},
}

var rootCmd = &cobra.Command{
	Use:   "bspmerge",
	Short: "bspmerge combines GoldSrc BSP maps into a single file.",
}

func init() {
	mergeCmd.Flags().Float32VarP(&gapX, "gap-x", "x", 0, "gap between packed maps on the X axis")
	mergeCmd.Flags().Float32VarP(&gapY, "gap-y", "y", 0, "gap between packed maps on the Y axis")
	mergeCmd.Flags().Float32VarP(&gapZ, "gap-z", "z", 0, "gap between packed maps on the Z axis")
	mergeCmd.Flags().StringVarP(&outPath, "output", "o", "merged.bsp", "output BSP path")
	mergeCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(locateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Println("error:", err)
		switch {
		case errors.Is(err, merge.ErrNotSeparable), errors.Is(err, merge.ErrInsufficientRoom):
			os.Exit(2)
		default:
			os.Exit(1)
		}
	}
}
