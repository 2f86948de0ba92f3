package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"go/parser"
	"go/token"
	"reflect"
	"strconv"
	"text/template"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/logger"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/model"
)

// toolsImport 生成代码中工具包的导入路径
const toolsImport = "research/tools"

// allowedImports 生成代码允许导入的包
var allowedImports = map[string]bool{
	toolsImport: true,
	"fmt":       true,
	"strings":   true,
}

var programTemplate = template.Must(template.New("program").Parse(`package main

import (
	"fmt"

	"{{.Import}}"
)

// planned at {{.PlannedAt}} for topic {{printf "%q" .Topic}}
func Run(topic string) (string, error) {
	found, err := tools.Search(topic)
	if err != nil {
		return "", fmt.Errorf("search: %w", err)
	}
	analysis, err := tools.Analyze(found)
	if err != nil {
		return "", fmt.Errorf("analyze: %w", err)
	}
	report, err := tools.Report(topic, found, analysis)
	if err != nil {
		return "", fmt.Errorf("report: %w", err)
	}
	return tools.Save(report)
}
`))

// Code 代码智能体：先生成 Go 程序，再用解释器执行
type Code struct {
	kit *Toolkit
}

func NewCode(kit *Toolkit) *Code { return &Code{kit: kit} }

func (c *Code) Framework() string { return FrameworkCode }

func (c *Code) Run(ctx context.Context, topic string) (*Result, error) {
	r := c.kit.newRun(FrameworkCode, topic)

	program, err := c.plan(topic)
	if err != nil {
		return r.finish(fmt.Errorf("plan program: %w", err))
	}
	r.program = program

	if err := validateImports(program); err != nil {
		return r.finish(err)
	}
	_, err = execute(ctx, program, bindTools(ctx, r), topic)
	return r.finish(err)
}

func (c *Code) plan(topic string) (string, error) {
	var buf bytes.Buffer
	err := programTemplate.Execute(&buf, map[string]string{
		"Import":    toolsImport,
		"PlannedAt": c.kit.Clock.CurrentTime(),
		"Topic":     topic,
	})
	if err != nil {
		return "", err
	}
	logger.Log.Debugf("[code] 生成程序:\n%s", buf.String())
	return buf.String(), nil
}

// validateImports 只允许白名单中的包
func validateImports(src string) error {
	f, err := parser.ParseFile(token.NewFileSet(), "program.go", src, parser.ImportsOnly)
	if err != nil {
		return fmt.Errorf("parse program: %w", err)
	}
	var forbidden []string
	for _, imp := range f.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			return fmt.Errorf("parse import %s: %w", imp.Path.Value, err)
		}
		if !allowedImports[path] {
			forbidden = append(forbidden, path)
		}
	}
	if len(forbidden) > 0 {
		return fmt.Errorf("forbidden imports: %v", forbidden)
	}
	return nil
}

// bindTools 把各步骤导出给解释器，参数与返回值都是 JSON 字符串
func bindTools(ctx context.Context, r *run) interp.Exports {
	search := func(topic string) (string, error) {
		found, err := r.search(ctx, topic)
		if err != nil {
			return "", err
		}
		return encode(found)
	}
	analyze := func(found string) (string, error) {
		var res model.SearchResult
		if err := json.Unmarshal([]byte(found), &res); err != nil {
			return "", err
		}
		analysis, err := r.analyze(&res)
		if err != nil {
			return "", err
		}
		return encode(analysis)
	}
	report := func(topic, found, analysis string) (string, error) {
		var res model.SearchResult
		if err := json.Unmarshal([]byte(found), &res); err != nil {
			return "", err
		}
		var a model.Analysis
		if err := json.Unmarshal([]byte(analysis), &a); err != nil {
			return "", err
		}
		rep, err := r.report(ctx, topic, &res, &a)
		if err != nil {
			return "", err
		}
		return encode(rep)
	}
	save := func(report string) (string, error) {
		var rep model.Report
		if err := json.Unmarshal([]byte(report), &rep); err != nil {
			return "", err
		}
		return r.save(ctx, &rep)
	}

	return interp.Exports{
		toolsImport + "/tools": {
			"Search":  reflect.ValueOf(search),
			"Analyze": reflect.ValueOf(analyze),
			"Report":  reflect.ValueOf(report),
			"Save":    reflect.ValueOf(save),
		},
	}
}

// execute 在解释器中加载程序并调用 main.Run
func execute(ctx context.Context, program string, exports interp.Exports, topic string) (string, error) {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return "", fmt.Errorf("load stdlib: %w", err)
	}
	if err := i.Use(exports); err != nil {
		return "", fmt.Errorf("load tools: %w", err)
	}
	if _, err := i.EvalWithContext(ctx, program); err != nil {
		return "", fmt.Errorf("evaluate program: %w", err)
	}
	v, err := i.Eval("main.Run")
	if err != nil {
		return "", fmt.Errorf("entry point not found: %w", err)
	}
	run, ok := v.Interface().(func(string) (string, error))
	if !ok {
		return "", fmt.Errorf("entry point has signature %s, want func(string) (string, error)", v.Type())
	}
	return run(topic)
}

func encode(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
