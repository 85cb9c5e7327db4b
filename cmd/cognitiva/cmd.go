package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/client/api"
	"github.com/jhoicas/cognitiva-api/internal/client/gate"
	"github.com/jhoicas/cognitiva-api/internal/client/insight"
	"github.com/jhoicas/cognitiva-api/internal/client/manager"
	"github.com/jhoicas/cognitiva-api/internal/client/menu"
	"github.com/jhoicas/cognitiva-api/internal/client/school"
	"github.com/jhoicas/cognitiva-api/internal/client/session"
	"github.com/jhoicas/cognitiva-api/pkg/logger"
)

var (
	readPasswordFunc = func() ([]byte, error) { return term.ReadPassword(int(os.Stdin.Fd())) } // reemplazable en tests

	errHelp = errors.New("ayuda mostrada")
)

type commandLine struct {
	session *session.Store
	client  *api.Client
	gate    *gate.Gate
	schools *school.Selector
	out     io.Writer
	in      *bufio.Reader
	log     *logger.Logger

	schoolsReady bool
	bindErr      error
	yes          bool // confirma sin preguntar (delete -y)

	// solo en shell: managers montados por recurso
	views map[string]view
	quiet int
}

func newCommandLine(store *session.Store, client *api.Client, out io.Writer, in *bufio.Reader) *commandLine {
	return &commandLine{
		session: store,
		client:  client,
		gate:    gate.New(store, store.Navigator()),
		schools: school.New(client),
		out:     out,
		in:      in,
		log:     logger.Nop(),
	}
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Uso:")
	fmt.Fprintln(cli.out, "  login -registro REGISTRO            inicia sesión (la senha se pide a continuación)")
	fmt.Fprintln(cli.out, "  logout                              cierra la sesión")
	fmt.Fprintln(cli.out, "  whoami                              usuario, cargo y menú disponible")
	fmt.Fprintln(cli.out, "  schools                             escuelas visibles y la seleccionada")
	fmt.Fprintln(cli.out, "  dashboard [-ano N] [-escola ID]     panel de inicio de la escuela")
	fmt.Fprintln(cli.out, "  use-school ID                       cambia de escuela (solo Administrador, dentro de shell)")
	fmt.Fprintln(cli.out, "  list RECURSO [-q TEXTO] [-turma ID] [-escola ID]")
	fmt.Fprintln(cli.out, "                                      recursos: "+strings.Join(resourceNames(), ", "))
	fmt.Fprintln(cli.out, "  create RECURSO [-escola ID] campo=valor...")
	fmt.Fprintln(cli.out, "                                      alta; atividades muestra turmas y matérias")
	fmt.Fprintln(cli.out, "  edit RECURSO ID [-escola ID] campo=valor...")
	fmt.Fprintln(cli.out, "                                      cambia solo los campos dados")
	fmt.Fprintln(cli.out, "  delete RECURSO ID [-y] [-escola ID] borra tras confirmar")
	fmt.Fprintln(cli.out, "  insight ALUNO_ID [-json] PROMPT...  genera un insight de IA para el alumno")
	fmt.Fprintln(cli.out, "  shell                               modo interactivo")
}

// run args incluye el nombre del programa.
func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	return cli.dispatch(context.Background(), args[1], args[2:])
}

func (cli *commandLine) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return cli.login(ctx, args)
	case "logout":
		return cli.logout()
	case "whoami":
		return cli.whoami()
	case "schools":
		return cli.listSchools(ctx)
	case "dashboard":
		return cli.dashboard(ctx, args)
	case "use-school":
		return cli.useSchool(ctx, args)
	case "list":
		return cli.list(ctx, args)
	case "create":
		return cli.create(ctx, args)
	case "edit":
		return cli.edit(ctx, args)
	case "delete":
		return cli.delete(ctx, args)
	case "insight":
		return cli.insight(ctx, args)
	case "shell":
		return cli.shell(ctx)
	case "help", "-h", "--help":
		cli.printUsage()
		return errHelp
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(cli.out)
	registro := fs.String("registro", "", "registro del docente")
	if err := fs.Parse(args); err != nil {
		return errHelp
	}
	if *registro == "" {
		fs.Usage()
		return errHelp
	}
	fmt.Fprint(cli.out, "Senha: ")
	pwd, err := readPasswordFunc()
	fmt.Fprintln(cli.out)
	if err != nil {
		return err
	}
	if len(pwd) == 0 {
		return api.ErrInvalidCredentials
	}

	resp, err := cli.client.Login(ctx, *registro, string(pwd))
	if err != nil {
		return err
	}
	user, err := session.UserFromLogin(resp.User)
	if err != nil {
		return err
	}
	cli.bindErr = nil
	if err := cli.session.Login(resp.Token, user); err != nil {
		return err
	}
	// en shell el selector ya siguió el login
	cli.schoolsReady = cli.views != nil && cli.bindErr == nil
	fmt.Fprintf(cli.out, "Bem-vindo, %s (%s).\n", user.Name, user.Role)
	return nil
}

func (cli *commandLine) logout() error {
	if err := cli.session.Logout(); err != nil {
		return err
	}
	cli.schools.Reset()
	cli.schoolsReady = false
	fmt.Fprintln(cli.out, "Sessão encerrada.")
	return nil
}

func (cli *commandLine) whoami() error {
	_, err := cli.gate.Guard(func() error {
		u, _ := cli.session.User()
		fmt.Fprintf(cli.out, "%s (%s)\nid: %s\nescola: %s\n", u.Name, u.Role, u.ID, u.SchoolID)
		fmt.Fprintln(cli.out, "menu:")
		for _, e := range menu.For(u.Role) {
			fmt.Fprintf(cli.out, "  %-12s %s\n", e.Key, e.Label)
		}
		return nil
	})
	return err
}

// ensureSchools fija la selección inicial una vez por sesión; escola != "" la cambia.
func (cli *commandLine) ensureSchools(ctx context.Context, escola string) error {
	if !cli.schoolsReady {
		u, ok := cli.session.User()
		if !ok {
			return gate.ErrNotAuthenticated
		}
		if err := cli.schools.OnLogin(ctx, u); err != nil {
			return err
		}
		cli.schoolsReady = true
	}
	if escola != "" {
		if cur, _ := cli.schools.Current(); cur != escola {
			return cli.schools.Set(escola)
		}
	}
	return nil
}

func (cli *commandLine) listSchools(ctx context.Context) error {
	_, err := cli.gate.Guard(func() error {
		if err := cli.ensureSchools(ctx, ""); err != nil {
			return err
		}
		cur, _ := cli.schools.Current()
		list := cli.schools.Schools()
		if len(list) == 0 {
			if cur == "" {
				fmt.Fprintln(cli.out, "Nenhuma escola disponível.")
			} else {
				fmt.Fprintf(cli.out, "* %s (escola do usuário)\n", cur)
			}
			return nil
		}
		w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
		for _, s := range list {
			mark := " "
			if s.ID == cur {
				mark = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", mark, s.ID, s.Nome)
		}
		return w.Flush()
	})
	return err
}

func (cli *commandLine) dashboard(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	fs.SetOutput(cli.out)
	year := fs.Int("ano", 0, "año lectivo (por defecto el actual)")
	escola := fs.String("escola", "", "escola (Administrador)")
	if err := fs.Parse(args); err != nil {
		return errHelp
	}
	_, err := cli.gate.Guard(func() error {
		if err := cli.ensureSchools(ctx, *escola); err != nil {
			return err
		}
		query := url.Values{}
		if cur, ok := cli.schools.Current(); ok {
			query.Set(manager.QueryViewingSchool, cur)
		}
		if *year != 0 {
			query.Set("anoLetivo", strconv.Itoa(*year))
		}
		var out dto.DashboardResponse
		if err := cli.client.Get(ctx, "/api/dashboard", query, &out); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Ano letivo %d\n", out.AnoLetivo)
		fmt.Fprintf(cli.out, "Docentes: %d  Turmas: %d  Matérias: %d\n", out.Docentes, out.Turmas, out.Materias)
		fmt.Fprintf(cli.out, "Alunos: %d (com condição: %d)\n", out.Alunos, out.AlunosComCondicao)
		fmt.Fprintf(cli.out, "Insights nos últimos 30 dias: %d\n", out.InsightsRecentes)
		if len(out.MediasPorMateria) == 0 {
			return nil
		}
		w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "Matéria\tMédia\tNotas")
		for _, m := range out.MediasPorMateria {
			fmt.Fprintf(w, "%s\t%s\t%d\n", m.Nome, m.Media.StringFixed(2), m.Notas)
		}
		return w.Flush()
	})
	return err
}

func (cli *commandLine) useSchool(ctx context.Context, args []string) error {
	if len(args) != 1 {
		cli.printUsage()
		return errHelp
	}
	_, err := cli.gate.Guard(func() error {
		if err := cli.ensureSchools(ctx, ""); err != nil {
			return err
		}
		if err := cli.schools.Set(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Escola selecionada: %s\n", args[0])
		return nil
	})
	return err
}

func (cli *commandLine) resource(args []string) (resourceCmd, error) {
	rc, ok := resources[args[0]]
	if !ok {
		return resourceCmd{}, fmt.Errorf("recurso desconhecido %q (%s)", args[0], strings.Join(resourceNames(), ", "))
	}
	return rc, nil
}

// guardResource ejecuta fn con sesión, cargo permitido y escuela lista. Las recargas que
// provoca fn no se anuncian.
func (cli *commandLine) guardResource(ctx context.Context, rc resourceCmd, escola string, fn func() error) error {
	_, err := cli.gate.Guard(func() error {
		if err := cli.ensureSchools(ctx, escola); err != nil {
			return err
		}
		cli.quiet++
		defer func() { cli.quiet-- }()
		return fn()
	}, rc.roles()...)
	return err
}

func (cli *commandLine) list(ctx context.Context, args []string) error {
	if len(args) < 1 {
		cli.printUsage()
		return errHelp
	}
	rc, err := cli.resource(args)
	if err != nil {
		return err
	}
	key := args[0]
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(cli.out)
	text := fs.String("q", "", "texto a buscar (sem acentos)")
	turma := fs.String("turma", "", "filtra alunos/atividades por turma")
	escola := fs.String("escola", "", "escola a consultar (Administrador)")
	if err := fs.Parse(args[1:]); err != nil {
		return errHelp
	}
	return cli.guardResource(ctx, rc, *escola, func() error {
		v, err := cli.load(ctx, key, rc, *turma)
		if err != nil {
			return err
		}
		return v.print(cli.out, *text)
	})
}

func (cli *commandLine) create(ctx context.Context, args []string) error {
	if len(args) < 1 {
		cli.printUsage()
		return errHelp
	}
	rc, err := cli.resource(args)
	if err != nil {
		return err
	}
	key := args[0]
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(cli.out)
	escola := fs.String("escola", "", "escola (Administrador)")
	if err := fs.Parse(args[1:]); err != nil {
		return errHelp
	}
	form, err := parseForm(fs.Args())
	if err != nil {
		return err
	}
	return cli.guardResource(ctx, rc, *escola, func() error {
		v := cli.view(ctx, key, rc)
		v.OpenCreate()
		cli.showLocked(v, form)
		if rc.related != nil {
			printChoices(cli.out, manager.LoadRelated(ctx, rc.related(cli)...))
		}
		id, err := v.submit(ctx, form)
		if err != nil {
			cli.backToList(ctx, v)
			return err
		}
		fmt.Fprintf(cli.out, "Criado: %s\n", id)
		return nil
	})
}

func (cli *commandLine) edit(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	rc, err := cli.resource(args)
	if err != nil {
		return err
	}
	key, id := args[0], args[1]
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(cli.out)
	escola := fs.String("escola", "", "escola (Administrador)")
	if err := fs.Parse(args[2:]); err != nil {
		return errHelp
	}
	changes, err := parseForm(fs.Args())
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		return errors.New("nada para alterar: use campo=valor")
	}
	return cli.guardResource(ctx, rc, *escola, func() error {
		v, err := cli.load(ctx, key, rc, "")
		if err != nil {
			return err
		}
		if err := v.OpenDetail(id); err != nil {
			return err
		}
		cli.showLocked(v, changes)
		form, err := v.selectedForm()
		if err != nil {
			cli.backToList(ctx, v)
			return err
		}
		for k, val := range changes {
			form[k] = val
		}
		if _, err := v.submit(ctx, form); err != nil {
			cli.backToList(ctx, v)
			return err
		}
		fmt.Fprintln(cli.out, "Atualizado.")
		return nil
	})
}

// showLocked avisa de los campos que el cargo no puede elegir; el manager los completa.
func (cli *commandLine) showLocked(v view, form manager.Form) {
	locked := v.LockedFields()
	if len(locked) == 0 {
		return
	}
	fmt.Fprintf(cli.out, "Campos bloqueados: %s\n", strings.Join(locked, ", "))
	for _, f := range locked {
		if _, ok := form[f]; ok {
			fmt.Fprintf(cli.out, "%s ignorado: é definido pelo seu cargo\n", f)
		}
	}
}

// backToList deja el manager en LIST tras un envío fallido.
func (cli *commandLine) backToList(ctx context.Context, v view) {
	if err := v.Back(ctx); err != nil {
		cli.log.Debug().Err(err).Msg("volver a la lista")
	}
}

func (cli *commandLine) delete(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	rc, err := cli.resource(args)
	if err != nil {
		return err
	}
	key, id := args[0], args[1]
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(cli.out)
	yes := fs.Bool("y", false, "não pedir confirmação")
	escola := fs.String("escola", "", "escola (Administrador)")
	if err := fs.Parse(args[2:]); err != nil {
		return errHelp
	}
	cli.yes = *yes
	defer func() { cli.yes = false }()
	return cli.guardResource(ctx, rc, *escola, func() error {
		deleted, err := cli.view(ctx, key, rc).Delete(ctx, id)
		if err != nil {
			return err
		}
		if deleted {
			fmt.Fprintln(cli.out, "Excluído.")
		} else {
			fmt.Fprintln(cli.out, "Cancelado.")
		}
		return nil
	})
}

func (cli *commandLine) insight(ctx context.Context, args []string) error {
	if len(args) < 1 {
		cli.printUsage()
		return errHelp
	}
	studentID := args[0]
	fs := flag.NewFlagSet("insight", flag.ContinueOnError)
	fs.SetOutput(cli.out)
	showJSON := fs.Bool("json", false, "mostra a ficha enviada à IA")
	if err := fs.Parse(args[1:]); err != nil {
		return errHelp
	}
	prompt := strings.Join(fs.Args(), " ")
	_, err := cli.gate.Guard(func() error {
		r := insight.New(cli.client)
		if err := r.Load(ctx, studentID); err != nil {
			return err
		}
		if *showJSON {
			raw, _ := r.RawJSON()
			fmt.Fprintln(cli.out, raw)
		}
		if strings.TrimSpace(prompt) == "" {
			history, err := r.History(ctx)
			if err != nil {
				return err
			}
			for _, h := range history {
				fmt.Fprintf(cli.out, "[%s] %s\n%s\n\n", h.CreatedAt.Format("02/01/2006 15:04"), h.Prompt, h.Conteudo)
			}
			return nil
		}
		fmt.Fprintln(cli.out, "Gerando insight...")
		out, err := r.Generate(ctx, prompt)
		if err != nil {
			return err
		}
		fmt.Fprintln(cli.out, out.Conteudo)
		return nil
	})
	return err
}

// shell mantiene la sesión y la escuela seleccionada entre comandos. Los listados quedan
// montados y se recargan solos al cambiar de escuela o de usuario.
func (cli *commandLine) shell(ctx context.Context) error {
	fmt.Fprintln(cli.out, `Cognitiva - "help" para comandos, "exit" para sair.`)
	unbind := cli.schools.Bind(ctx, cli.session, func(err error) {
		cli.bindErr = err
		fmt.Fprintf(cli.out, "erro: escolas: %s\n", err)
	})
	cli.views = make(map[string]view)
	defer func() {
		unbind()
		for _, v := range cli.views {
			v.Unmount()
		}
		cli.views = nil
	}()
	for {
		fmt.Fprint(cli.out, "> ")
		line, err := cli.in.ReadString('\n')
		fields := strings.Fields(line)
		if len(fields) > 0 {
			if fields[0] == "exit" || fields[0] == "quit" {
				return nil
			}
			if fields[0] == "shell" {
				fmt.Fprintln(cli.out, "já está no shell")
			} else if cmdErr := cli.dispatch(ctx, fields[0], fields[1:]); cmdErr != nil && !errors.Is(cmdErr, errHelp) {
				fmt.Fprintf(cli.out, "erro: %s\n", cmdErr)
			}
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(cli.out)
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// confirm pregunta s/N en la entrada del comando, salvo con -y.
func (cli *commandLine) confirm(prompt string) bool {
	if cli.yes {
		return true
	}
	fmt.Fprintf(cli.out, "%s [s/N] ", prompt)
	answer, _ := cli.in.ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "s" || answer == "sim" || answer == "y"
}
