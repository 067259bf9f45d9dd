package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/iconlabel/binding"
	"github.com/ByLCY/iconlabel/dsl"
	"github.com/ByLCY/iconlabel/encode"
	"github.com/ByLCY/iconlabel/icon"
	"github.com/ByLCY/iconlabel/label"
	"github.com/ByLCY/iconlabel/layout"
	"github.com/ByLCY/iconlabel/renderer"
	canvasrenderer "github.com/ByLCY/iconlabel/renderer/canvas"
	"github.com/ByLCY/iconlabel/renderer/raster"
	"github.com/ByLCY/iconlabel/server"
)

type options struct {
	stylePath string
	caption   string
	format    string
	output    string
	dataURI   bool
	debug     string
	backend   string
	iconDir   string
	iconSize  int
	maxWidth  float64
	jobs      int
	verbose   bool
}

func main() {
	var opts options
	flag.StringVar(&opts.stylePath, "style", "", "标签样式文件（.label）")
	flag.StringVar(&opts.caption, "caption", "", "标题或模板，例如 ${base} (${size})；默认文件名")
	flag.StringVar(&opts.format, "format", "", "输出格式 png/jpeg/gif/pdf/svg，默认取样式文件")
	flag.StringVar(&opts.output, "out", "output", "输出目录；单个文件时也可以是文件路径")
	flag.BoolVar(&opts.dataURI, "datauri", false, "将 data URI 打印到标准输出而不写文件")
	flag.StringVar(&opts.debug, "debug", "", "布局调试 JSON 输出路径")
	flag.StringVar(&opts.backend, "backend", "raster", "渲染后端 raster 或 canvas（PDF/SVG 需要 canvas）")
	flag.StringVar(&opts.iconDir, "icons", "", "按扩展名查找图标的目录，缺省时绘制文档图标")
	flag.IntVar(&opts.iconSize, "icon-size", 0, "图标边长（像素），0 表示取样式文件或 64")
	flag.Float64Var(&opts.maxWidth, "width", 0, "最大行宽（像素），0 表示取样式文件")
	flag.IntVar(&opts.jobs, "j", runtime.NumCPU(), "并发数")
	flag.BoolVar(&opts.verbose, "v", false, "输出调试日志")
	serve := flag.Bool("serve", false, "以 HTTP 服务方式运行")
	flag.Parse()

	if opts.verbose {
		label.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	style, err := loadStyle(opts.stylePath)
	if err != nil {
		log.Fatalf("加载样式失败: %v", err)
	}
	applyOverrides(&style, opts)

	baseDir := "."
	if opts.stylePath != "" {
		baseDir = filepath.Dir(opts.stylePath)
	}
	r, err := newRenderer(opts.backend, baseDir)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if *serve {
		if err := runServer(r, style, opts); err != nil {
			log.Fatalf("服务退出: %v", err)
		}
		return
	}

	if flag.NArg() == 0 {
		log.Fatalf("请指定至少一个文件")
	}
	results, err := run(context.Background(), flag.Args(), style, r, iconSource(opts.iconDir, style.GlyphSize), opts)
	if err != nil {
		log.Fatalf("生成标签失败: %v", err)
	}
	for _, res := range results {
		if opts.dataURI {
			fmt.Println(res.dataURI)
			continue
		}
		fmt.Printf("已生成标签：%s（%dx%d）\n", res.output, res.plan.Width, res.plan.Height)
	}
}

func loadStyle(path string) (layout.Style, error) {
	if path == "" {
		return layout.DefaultStyle(), nil
	}
	doc, err := dsl.ParseFile(path)
	if err != nil {
		return layout.Style{}, fmt.Errorf("解析样式文件失败: %w", err)
	}
	return layout.StyleFromDocument(doc)
}

func applyOverrides(style *layout.Style, opts options) {
	if opts.format != "" {
		style.Format = strings.ToLower(opts.format)
	}
	if opts.iconSize > 0 {
		style.GlyphSize = opts.iconSize
	}
	if style.GlyphSize <= 0 {
		style.GlyphSize = 64
	}
	if opts.maxWidth > 0 {
		style.MaxLineWidth = opts.maxWidth
	}
}

func newRenderer(backend, baseDir string) (renderer.Renderer, error) {
	switch backend {
	case "", "raster":
		return raster.New(raster.Options{BaseDir: baseDir}), nil
	case "canvas":
		return canvasrenderer.NewRenderer(baseDir), nil
	default:
		return nil, fmt.Errorf("未知的渲染后端 %q", backend)
	}
}

func iconSource(dir string, size int) icon.Source {
	doc := icon.Document{Size: size}
	if dir == "" {
		return doc
	}
	return icon.Chain{icon.ThemeDir{Dir: dir}, doc}
}

type result struct {
	input   string
	output  string
	dataURI string
	plan    *layout.Label
}

// run 为每个输入文件生成标签：取图标、填充标题、布局、绘制并编码。
func run(ctx context.Context, inputs []string, style layout.Style, r renderer.Renderer, icons icon.Source, opts options) ([]result, error) {
	if r == nil {
		return nil, fmt.Errorf("renderer 不能为空")
	}
	enc, err := encode.ForFormat(style.Format, style.Quality)
	if err != nil {
		return nil, err
	}

	// 测量结果在多个文件之间共享
	metrics := layout.NewMetricsCache(r, 4096)
	composer := label.ForStyle(r, style)
	composer.Options.Metrics = metrics

	single := len(inputs) == 1 && filepath.Ext(opts.output) != ""
	if !opts.dataURI {
		dir := opts.output
		if single {
			dir = filepath.Dir(opts.output)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("创建输出目录失败: %w", err)
		}
	}

	var outputs []string
	if !opts.dataURI {
		outputs = outputPaths(inputs, opts.output, style.Format, single)
	}

	results := make([]result, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.jobs, 1))
	for i, input := range inputs {
		g.Go(func() error {
			glyph, err := icons.Glyph(ctx, input)
			if err != nil {
				return err
			}
			glyph = icon.Fit(glyph, style.GlyphSize)

			caption := binding.Caption(opts.caption, input)
			plan, err := composer.Plan(glyph, caption, style.Font, style.MaxLineWidth)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			canvas, err := composer.Render(plan, glyph)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			data, err := encode.Bytes(enc, canvas)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}

			res := result{input: input, plan: plan}
			if opts.dataURI {
				res.dataURI = encode.DataURI(data)
			} else {
				res.output = outputs[i]
				if err := os.WriteFile(res.output, data, 0o644); err != nil {
					return fmt.Errorf("写入标签文件失败: %w", err)
				}
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.debug != "" {
		plans := make([]*layout.Label, len(results))
		for i, res := range results {
			plans[i] = res.plan
		}
		if err := writeDebug(plans, opts.debug); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func outputPath(input, output, format string, single bool) string {
	if single {
		return output
	}
	ext := strings.ToLower(format)
	if ext == "jpg" {
		ext = "jpeg"
	}
	return filepath.Join(output, filepath.Base(input)+"."+ext)
}

// outputPaths 为每个输入分配输出路径。不同目录下的同名文件会得到
// report.pdf-2.png 这样的编号，避免并发写入同一个文件。
func outputPaths(inputs []string, output, format string, single bool) []string {
	paths := make([]string, len(inputs))
	seen := make(map[string]bool, len(inputs))
	for i, input := range inputs {
		path := outputPath(input, output, format, single)
		ext := filepath.Ext(path)
		stem := strings.TrimSuffix(path, ext)
		for n := 2; seen[strings.ToLower(path)]; n++ {
			path = fmt.Sprintf("%s-%d%s", stem, n, ext)
		}
		seen[strings.ToLower(path)] = true
		paths[i] = path
	}
	return paths
}

func writeDebug(plans []*layout.Label, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(plans, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

func runServer(r renderer.Renderer, style layout.Style, opts options) error {
	cfg := server.LoadConfig()
	if opts.iconDir != "" {
		cfg.IconDir = opts.iconDir
	}
	cfg.IconSize = style.GlyphSize

	var cache *server.Cache
	if cfg.CacheDir != "" {
		c, err := server.NewCache(cfg.CacheDir, 24*time.Hour)
		if err != nil {
			// 缓存不是必需的，出错时继续
			log.Printf("Warning: 初始化缓存失败: %v", err)
		} else {
			cache = c
		}
	}

	composer := label.ForStyle(r, style)
	composer.Options.Metrics = layout.NewMetricsCache(r, 1<<16)

	h := server.NewHandler(composer, iconSource(cfg.IconDir, style.GlyphSize), style, cache, cfg)
	engine := server.NewRouter(h, cfg.Mode)
	log.Printf("Starting server on %s", cfg.Port)
	return engine.Run(cfg.Port)
}
