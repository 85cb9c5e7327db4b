package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/client/manager"
	"github.com/jhoicas/cognitiva-api/internal/client/menu"
	"github.com/jhoicas/cognitiva-api/internal/domain"
)

// view manager de un recurso visto desde la consola, sin el parámetro de tipo.
type view interface {
	Mount(ctx context.Context) error
	Unmount()
	Refresh(ctx context.Context) error
	SetParam(key, value string)
	OnChange(fn func())
	State() manager.State
	Err() error
	OpenCreate()
	OpenDetail(id string) error
	Back(ctx context.Context) error
	LockedFields() []string
	Delete(ctx context.Context, id string) (bool, error)

	count() int
	print(w io.Writer, text string) error
	selectedForm() (manager.Form, error)
	submit(ctx context.Context, form manager.Form) (string, error)
}

type typedView[T any] struct {
	*manager.Manager[T]
	columns func(T) []string
}

func (v typedView[T]) count() int { return len(v.Items()) }

func (v typedView[T]) print(w io.Writer, text string) error {
	items := v.Filter(text)
	if len(items) == 0 {
		fmt.Fprintln(w, "Nenhum registro encontrado.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, it := range items {
		fmt.Fprintln(tw, strings.Join(v.columns(it), "\t"))
	}
	return tw.Flush()
}

// selectedForm registro abierto en DETAIL como formulario, para editar solo algunos campos.
func (v typedView[T]) selectedForm() (manager.Form, error) {
	item, ok := v.Selected()
	if !ok {
		return nil, manager.ErrNotFound
	}
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, err
	}
	form := manager.Form{}
	if err := json.Unmarshal(raw, &form); err != nil {
		return nil, err
	}
	return form, nil
}

func (v typedView[T]) submit(ctx context.Context, form manager.Form) (string, error) {
	out, err := v.Submit(ctx, form)
	if err != nil {
		return "", err
	}
	return v.Resource().ID(out), nil
}

// resourceCmd comandos de consola de un recurso.
type resourceCmd struct {
	menuKey string
	byClass bool
	newView func(deps manager.Deps) view
	// related cargas que pueblan el formulario de alta.
	related func(cli *commandLine) []manager.Fetcher
}

// roles cargos que ven la entrada de menú del recurso.
func (rc resourceCmd) roles() []domain.Role {
	e, ok := menu.Find(rc.menuKey)
	if !ok {
		return nil
	}
	return e.Roles
}

func (cli *commandLine) deps() manager.Deps {
	return manager.Deps{API: cli.client, Schools: cli.schools, Session: cli.session, Confirm: manager.ConfirmFunc(cli.confirm)}
}

// register arma los comandos de un recurso a partir de su descriptor y sus columnas.
func register[T any](menuKey string, res func() manager.Resource[T], byClass bool, columns func(T) []string) resourceCmd {
	return resourceCmd{
		menuKey: menuKey,
		byClass: byClass,
		newView: func(deps manager.Deps) view {
			return typedView[T]{Manager: manager.New(res(), deps), columns: columns}
		},
	}
}

// view devuelve el manager del recurso. Dentro de shell queda montado entre comandos y sigue
// los cambios de escuela y de sesión; fuera de shell es de un solo uso.
func (cli *commandLine) view(ctx context.Context, key string, rc resourceCmd) view {
	if cli.views == nil {
		return rc.newView(cli.deps())
	}
	if v, ok := cli.views[key]; ok {
		return v
	}
	v := rc.newView(cli.deps())
	v.OnChange(func() { cli.reportRefetch(key, v) })
	cli.views[key] = v
	cli.quiet++
	defer func() { cli.quiet-- }()
	if err := v.Mount(ctx); err != nil {
		// queda montado igual; el comando en curso vuelve a cargar y reporta el error
		cli.log.Debug().Err(err).Str("recurso", key).Msg("montar")
	}
	return v
}

// reportRefetch avisa de una recarga que no pidió el comando en curso (cambio de escuela o de sesión).
func (cli *commandLine) reportRefetch(key string, v view) {
	if cli.quiet > 0 || v.State() != manager.StateList || v.Err() != nil {
		return
	}
	fmt.Fprintf(cli.out, "(%s atualizado: %d registro(s))\n", key, v.count())
}

// load deja la lista al día con el filtro de turma dado.
func (cli *commandLine) load(ctx context.Context, key string, rc resourceCmd, turma string) (view, error) {
	if turma != "" && !rc.byClass {
		return nil, fmt.Errorf("o recurso %s não filtra por turma", key)
	}
	v := cli.view(ctx, key, rc)
	if rc.byClass {
		v.SetParam("turmaId", turma)
	}
	return v, v.Refresh(ctx)
}

// parseForm convierte campo=valor en el cuerpo JSON. Números y fechas (AAAA-MM-DD) se tipan.
func parseForm(pairs []string) (manager.Form, error) {
	form := manager.Form{}
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("campo inválido %q: use campo=valor", p)
		}
		switch {
		case intFields[key]:
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("%s deve ser um número", key)
			}
			form[key] = n
		case dateFields[key]:
			d, err := time.Parse(time.DateOnly, value)
			if err != nil {
				return nil, fmt.Errorf("%s deve estar no formato AAAA-MM-DD", key)
			}
			form[key] = d
		default:
			form[key] = value
		}
	}
	return form, nil
}

var (
	intFields  = map[string]bool{"anoLetivo": true, "cargaHoraria": true}
	dateFields = map[string]bool{"dataNascimento": true, "dataEntrega": true}
)

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

// activityChoices turmas y matérias para el alta de atividades.
func activityChoices(cli *commandLine) []manager.Fetcher {
	query := url.Values{}
	if id, ok := cli.schools.Current(); ok {
		query.Set(manager.QueryViewingSchool, id)
	}
	return []manager.Fetcher{
		manager.FetchList[dto.ClassResponse](cli.client, "turmas", "/api/turmas", query),
		manager.FetchList[dto.SubjectResponse](cli.client, "materias", "/api/materias", query),
	}
}

func printChoices(w io.Writer, results []manager.Result) {
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%s: %s\n", r.Name, r.Err)
			continue
		}
		fmt.Fprintf(w, "%s:\n", r.Name)
		if classes, ok := manager.Value[[]dto.ClassResponse](r); ok {
			for _, c := range classes {
				fmt.Fprintf(w, "  %s  %s\n", c.ID, c.Nome)
			}
		}
		if subjects, ok := manager.Value[[]dto.SubjectResponse](r); ok {
			for _, s := range subjects {
				fmt.Fprintf(w, "  %s  %s\n", s.ID, s.Nome)
			}
		}
	}
}

var resources = map[string]resourceCmd{
	"escolas": register("escolas", manager.Schools, false, func(s dto.SchoolResponse) []string {
		return []string{s.ID, s.Nome, s.Email}
	}),
	"docentes": register("docentes", manager.Teachers, false, func(t dto.TeacherResponse) []string {
		return []string{t.ID, t.Nome, t.Registro, t.Cargo, t.Status}
	}),
	"turmas": register("turmas", manager.Classes, false, func(c dto.ClassResponse) []string {
		return []string{c.ID, c.Nome, strconv.Itoa(c.AnoLetivo), c.Turno}
	}),
	"materias": register("materias", manager.Subjects, false, func(s dto.SubjectResponse) []string {
		return []string{s.ID, s.Nome, strconv.Itoa(s.CargaHoraria) + "h", deref(s.ProfessorID)}
	}),
	"alunos": register("alunos", manager.Students, true, func(s dto.StudentResponse) []string {
		return []string{s.ID, s.Nome, s.Matricula, deref(s.TurmaID)}
	}),
	"atividades": withRelated(register("atividades", manager.Activities, true, func(a dto.ActivityResponse) []string {
		return []string{a.ID, a.Titulo, a.TurmaID, a.MateriaID}
	}), activityChoices),
	"condicoes": register("condicoes", manager.Conditions, false, func(c dto.ConditionResponse) []string {
		return []string{c.ID, c.Nome, c.CID}
	}),
}

func withRelated(rc resourceCmd, related func(*commandLine) []manager.Fetcher) resourceCmd {
	rc.related = related
	return rc
}

func resourceNames() []string {
	names := make([]string, 0, len(resources))
	for k := range resources {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
