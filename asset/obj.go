package asset

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/oliverbestmann/showcase/glm"
	"github.com/oliverbestmann/showcase/scene"
)

func loadOBJ(src fs.FS, name string, opts Options) (*scene.Node, error) {
	fp, err := src.Open(name)
	if err != nil {
		return nil, err
	}

	defer fp.Close()

	mesh, err := parseOBJ(bufio.NewScanner(fp), opts.color())
	if err != nil {
		return nil, err
	}

	mesh.Name = name

	return newModelNode(name, mesh), nil
}

// parseOBJ reads vertices, normals and faces of a wavefront obj file.
// Polygons with more than three corners are split into a triangle fan.
func parseOBJ(scanner *bufio.Scanner, color glm.Vec4f) (*scene.Mesh, error) {
	var positions []glm.Vec3f
	var normals []glm.Vec3f

	mesh := &scene.Mesh{}

	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())

		var err error

		switch {
		case strings.HasPrefix(line, "v "):
			var pos glm.Vec3f
			pos, err = parseVec3(line[2:])
			positions = append(positions, pos)

		case strings.HasPrefix(line, "vn "):
			var normal glm.Vec3f
			normal, err = parseVec3(line[3:])
			normals = append(normals, normal.Normalize())

		case strings.HasPrefix(line, "f "):
			err = addFace(mesh, line[2:], positions, normals, color)
		}

		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	return mesh, nil
}

func parseVec3(input string) (glm.Vec3f, error) {
	fields := strings.Fields(input)

	// a fourth (w) component is allowed and ignored
	if len(fields) != 3 && len(fields) != 4 {
		return glm.Vec3f{}, errors.New("expected three coordinates")
	}

	x, errX := strconv.ParseFloat(fields[0], 32)
	y, errY := strconv.ParseFloat(fields[1], 32)
	z, errZ := strconv.ParseFloat(fields[2], 32)

	if errX != nil || errY != nil || errZ != nil {
		return glm.Vec3f{}, errors.Join(errX, errY, errZ)
	}

	return glm.Vec3f{float32(x), float32(y), float32(z)}, nil
}

func addFace(mesh *scene.Mesh, input string, positions, normals []glm.Vec3f, color glm.Vec4f) error {
	fields := strings.Fields(input)
	if len(fields) < 3 {
		return fmt.Errorf("face needs at least three vertices, got %d", len(fields))
	}

	corners := make([]scene.Vertex, len(fields))
	withNormals := true

	for idx, field := range fields {
		ref, err := parseVertexRef(field)
		if err != nil {
			return err
		}

		posIdx, ok := resolveIndex(ref.Vertex, len(positions))
		if !ok {
			return fmt.Errorf("vertex index %d out of range", ref.Vertex)
		}

		corners[idx] = scene.Vertex{Position: positions[posIdx], Color: color}

		if ref.Normal == 0 {
			withNormals = false
			continue
		}

		normalIdx, ok := resolveIndex(ref.Normal, len(normals))
		if !ok {
			return fmt.Errorf("normal index %d out of range", ref.Normal)
		}

		corners[idx].Normal = normals[normalIdx]
	}

	for idx := 1; idx+1 < len(corners); idx++ {
		a, b, c := corners[0], corners[idx], corners[idx+1]

		if !withNormals {
			n := scene.FaceNormal(a.Position, b.Position, c.Position)
			a.Normal, b.Normal, c.Normal = n, n, n
		}

		base := uint32(len(mesh.Vertices))
		mesh.Vertices = append(mesh.Vertices, a, b, c)
		mesh.Indices = append(mesh.Indices, base, base+1, base+2)
	}

	return nil
}

// resolveIndex converts a one based obj index, negative values counting
// back from the end, into a slice index.
func resolveIndex(value, count int) (int, bool) {
	switch {
	case value > 0 && value <= count:
		return value - 1, true
	case value < 0 && -value <= count:
		return count + value, true
	default:
		return 0, false
	}
}

type vertexRef struct {
	Vertex int
	Normal int
}

// parseVertexRef parses one of v, v/vt, v//vn or v/vt/vn.
func parseVertexRef(input string) (vertexRef, error) {
	parts := strings.Split(input, "/")
	if len(parts) > 3 {
		return vertexRef{}, fmt.Errorf("invalid vertex reference: %q", input)
	}

	var err error
	var res vertexRef

	res.Vertex, err = strconv.Atoi(parts[0])
	if err != nil {
		return vertexRef{}, fmt.Errorf("parse vertex index %q: %w", parts[0], err)
	}

	if len(parts) == 3 && parts[2] != "" {
		res.Normal, err = strconv.Atoi(parts[2])
		if err != nil {
			return vertexRef{}, fmt.Errorf("parse normal index %q: %w", parts[2], err)
		}
	}

	return res, nil
}
